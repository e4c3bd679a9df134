package cmd

import "github.com/spf13/pflag"

// switchFlag is a boolean setting with both --name and --no-name forms.
type switchFlag struct {
	on  bool
	off bool
}

func (s *switchFlag) register(fs *pflag.FlagSet, name string, def bool, usage string) {
	fs.BoolVar(&s.on, name, def, usage)
	fs.BoolVar(&s.off, "no-"+name, false, "Disable --"+name)
}

func (s *switchFlag) value() bool { return s.on && !s.off }
