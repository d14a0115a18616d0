package launcher

type Dmenu struct {
	baseLauncher
}

func (d *Dmenu) buildArgs(prompt string) []string {
	return withArgs(d.args, "-p", prompt)
}

func (d *Dmenu) Show(options []string, prompt string) (string, error) {
	return d.run(d.buildArgs(prompt), options, false)
}

// Prompt returns the typed text; with no options, dmenu echoes the input line.
func (d *Dmenu) Prompt(prompt string) (string, error) {
	return d.Show(nil, prompt)
}
