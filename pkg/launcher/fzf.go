package launcher

type Fzf struct {
	baseLauncher
}

func (f *Fzf) buildArgs(prompt string) []string {
	return withArgs(f.args, "--prompt", prompt+"> ")
}

// queryArgs makes fzf print the query line even when nothing matches.
func (f *Fzf) queryArgs(prompt string) []string {
	return withArgs(f.args, "--print-query", "--prompt", prompt+"> ")
}

// Show draws on the terminal, so fzf's stderr is passed through.
func (f *Fzf) Show(options []string, prompt string) (string, error) {
	return f.run(f.buildArgs(prompt), options, true)
}

// Prompt reads free text typed into fzf's query line.
func (f *Fzf) Prompt(prompt string) (string, error) {
	return f.query(f.queryArgs(prompt), true)
}
