package launcher

type Bemenu struct {
	baseLauncher
}

func (b *Bemenu) buildArgs(prompt string) []string {
	return withArgs(b.args, "-p", prompt)
}

func (b *Bemenu) Show(options []string, prompt string) (string, error) {
	return b.run(b.buildArgs(prompt), options, false)
}

func (b *Bemenu) Prompt(prompt string) (string, error) {
	return b.Show(nil, prompt)
}
