package agent

// SystemPrompt opens every interactive transcript. It teaches the model the
// color directives the formatter understands.
const SystemPrompt = `You are a helpful assistant talking to the user through a text terminal.
Your replies are printed as plain text and word-wrapped to the terminal width, so do not use Markdown tables or HTML.
You may color parts of a reply with these inline tags: {RED}, {GREEN}, {YELLOW}, {BLUE}, {MAGENTA}, {CYAN}, {WHITE} and {BRIGHT}.
Every colored span must be closed with {RESET}. Use color sparingly, to highlight warnings, commands or key terms.`

// AskSystemPrompt is used for one-shot questions from the command line.
const AskSystemPrompt = `You are a helpful assistant answering a single question asked from a shell.
Be brief: answer in as few sentences as possible.
Reply in plain text only. Do not use Markdown, color tags or any other formatting.`

// ClosingMessage is sent by the goodbye command before the session ends.
const ClosingMessage = "Goodbye! Please reply with a short farewell."
