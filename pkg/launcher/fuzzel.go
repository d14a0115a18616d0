package launcher

import "slices"

type Fuzzel struct {
	baseLauncher
}

func (f *Fuzzel) buildArgs(prompt string) []string {
	args := withArgs(f.args)
	if !slices.Contains(args, "--dmenu") && !slices.Contains(args, "-d") {
		args = append(args, "--dmenu")
	}
	return append(args, "--prompt", prompt+": ")
}

func (f *Fuzzel) Show(options []string, prompt string) (string, error) {
	return f.run(f.buildArgs(prompt), options, false)
}

func (f *Fuzzel) Prompt(prompt string) (string, error) {
	return f.Show(nil, prompt)
}
