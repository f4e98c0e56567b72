package model

type Density struct {
	X     float64 `yaml:"x"`
	Value float64 `yaml:"v"`
}

type Cdf struct {
	X     float64 `yaml:"x"`
	Value float64 `yaml:"v"`
}
