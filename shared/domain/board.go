package domain

// BoardConfig is one entry of the board registry.
type BoardConfig struct {
	ID        BoardID `yaml:"id" validate:"required"`
	Name      string  `yaml:"name"`
	Anonymous string  `yaml:"anonymous"` // default display name
	Truncate  int     `yaml:"truncate"`  // line breaks shown before a message is cut
}
