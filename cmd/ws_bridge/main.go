package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logger = logrus.New()

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// frame is one line of process output sent to the browser.
type frame struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

func main() {
	var addr string
	cmd := &cobra.Command{
		Use:   "ws_bridge [command [args...]]",
		Short: "Expose a gpterm session over a WebSocket",
		Long: `ws_bridge starts the given command (gpterm by default) for every WebSocket
connection on /ws. Each message received is written to the command's stdin as
one line; each line the command prints is sent back as {"type", "data"} JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"gpterm"}
			}
			http.HandleFunc("/ws", handleWS(args))
			fmt.Printf("WebSocket server running on ws://%s/ws\n", addr)
			return http.ListenAndServe(addr, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Address to listen on")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// wsWriter serializes writes; a websocket connection allows one writer at a time.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) send(f frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// pump forwards every line of r as a frame of the given type.
func pump(w *wsWriter, r io.Reader, kind string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := w.send(frame{Type: kind, Data: scanner.Text()}); err != nil {
			logger.WithError(err).WithField("stream", kind).Warn("websocket write failed")
			return
		}
	}
}

func handleWS(cmdArgs []string) func(http.ResponseWriter, *http.Request) {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			logger.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()

		cmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			logger.WithError(err).Error("could not open command stdin")
			return
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			logger.WithError(err).Error("could not open command stdout")
			return
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			logger.WithError(err).Error("could not open command stderr")
			return
		}
		if err := cmd.Start(); err != nil {
			logger.WithError(err).WithField("command", cmdArgs[0]).Error("could not start command")
			return
		}
		defer func() {
			stdin.Close()
			_ = cmd.Wait()
		}()

		w := &wsWriter{conn: conn}
		go pump(w, stdout, "stdout")
		go pump(w, stderr, "stderr")

		// WebSocket messages become lines on the command's stdin.
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.WithError(err).Warn("websocket read failed")
				}
				return
			}
			if _, err := stdin.Write(append(msg, '\n')); err != nil {
				logger.WithError(err).Warn("could not write to command stdin")
				return
			}
		}
	}
}
