package launcher

type Rofi struct {
	baseLauncher
}

func (r *Rofi) buildArgs(prompt string) []string {
	return withArgs(r.args, "-dmenu", "-p", prompt)
}

func (r *Rofi) Show(options []string, prompt string) (string, error) {
	return r.run(r.buildArgs(prompt), options, false)
}

// Prompt returns the line typed into rofi's input field.
func (r *Rofi) Prompt(prompt string) (string, error) {
	return r.Show(nil, prompt)
}
