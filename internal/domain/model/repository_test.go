package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/codehub/internal/domain/model"
)

func TestIsValidRepoName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"owner/repo", true},
		{"my-org/my.repo_v2", true},
		{"owner", false},
		{"owner/", false},
		{"/repo", false},
		{"a/b/c", false},
		{"owner/re po", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.IsValidRepoName(tt.name))
		})
	}
}
