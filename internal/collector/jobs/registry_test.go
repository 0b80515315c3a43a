package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

type namedJob string

func (n namedJob) Name() string { return string(n) }
func (n namedJob) Run(context.Context) (*performance.RunStats, error) {
	return performance.NewRunStats(string(n)), nil
}

func TestRegistry(t *testing.T) {
	Register(" Registry-Test-A ", func(Deps) interfaces.Job { return namedJob("registry-test-a") })
	Register("registry-test-b", func(Deps) interfaces.Job { return namedJob("registry-test-b") })

	_, ok := FactoryByName("REGISTRY-TEST-A")
	assert.True(t, ok, "lookup ignores case")
	assert.Subset(t, AvailableNames(), []string{"registry-test-a", "registry-test-b"})

	assert.Panics(t, func() {
		Register("registry-test-a", func(Deps) interfaces.Job { return nil })
	})
	assert.Panics(t, func() { Register("", nil) })

	built, err := Build([]string{"registry-test-b"}, Deps{})
	require.NoError(t, err)
	require.Len(t, built, 1)
	assert.Equal(t, "registry-test-b", built[0].Name())

	_, err = Build([]string{"nope"}, Deps{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}
