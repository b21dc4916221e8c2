package application_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/codehub/internal/application"
)

func TestGitHubClientProvider_GetReturnsInitialClient(t *testing.T) {
	client := &mockGitHubClient{}
	provider := application.NewGitHubClientProvider(client, "alice")

	assert.Same(t, client, provider.Get())
	assert.Equal(t, "alice", provider.Login())
}

func TestGitHubClientProvider_ReplaceSwapsClient(t *testing.T) {
	original := &mockGitHubClient{}
	replacement := &mockGitHubClient{}

	provider := application.NewGitHubClientProvider(original, "alice")
	provider.Replace(replacement, "bob")

	assert.Same(t, replacement, provider.Get())
	assert.Equal(t, "bob", provider.Login())
}

func TestGitHubClientProvider_HasClientReturnsFalseForNil(t *testing.T) {
	provider := application.NewGitHubClientProvider(nil, "")

	require.False(t, provider.HasClient())

	provider.Replace(&mockGitHubClient{}, "alice")

	require.True(t, provider.HasClient())
}

func TestGitHubClientProvider_ConcurrentGetReplaceSafety(t *testing.T) {
	client1 := &mockGitHubClient{}
	client2 := &mockGitHubClient{}
	provider := application.NewGitHubClientProvider(client1, "one")

	const goroutines = 100
	var wg sync.WaitGroup
	wg.Add(goroutines * 2)

	// Half the goroutines read, half write.
	for range goroutines {
		go func() {
			defer wg.Done()
			assert.NotNil(t, provider.Get())
		}()
		go func() {
			defer wg.Done()
			provider.Replace(client2, "two")
		}()
	}

	wg.Wait()

	assert.Same(t, client2, provider.Get())
}
