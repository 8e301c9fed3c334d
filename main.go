package relog

import (
	"github.com/relog-dev/relog/gen"
	"github.com/relog-dev/relog/repo"
)

// Instance binds one repository to the generation pipeline.
type Instance struct {
	Repository *repo.Repository
}

// Open wraps an opened repository. Use repo.Open, repo.OpenMemory or
// repo.Clone to obtain one.
func Open(repository *repo.Repository) *Instance {
	return &Instance{
		Repository: repository,
	}
}

// Generator builds a changelog generator over the instance's repository.
func (instance *Instance) Generator(config gen.Config) (*gen.Generator, error) {
	return gen.NewGenerator(instance.Repository, config)
}
