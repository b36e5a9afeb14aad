package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job is one named conversion in a job file.
type Job struct {
	Name        string `yaml:"name"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// jobFile is the root structure of a YAML job file.
type jobFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs reads and parses a YAML job file.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f jobFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("%s: no jobs defined", path)
	}

	for i, job := range f.Jobs {
		if job.From == "" || job.To == "" {
			return nil, fmt.Errorf("%s: job %d (%q): from and to are required", path, i+1, job.Name)
		}
		if job.Input == "" || job.Output == "" {
			return nil, fmt.Errorf("%s: job %d (%q): input and output are required", path, i+1, job.Name)
		}
	}
	return f.Jobs, nil
}
