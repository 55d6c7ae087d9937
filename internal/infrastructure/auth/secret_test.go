package auth

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretGenerator_LengthAndAlphabet(t *testing.T) {
	gen := NewSecretGenerator()

	for _, length := range []int{1, 2, 8, 25, 64, 200} {
		secret, err := gen.Generate(length)
		require.NoError(t, err)
		assert.Len(t, secret, length)
		for _, r := range secret {
			assert.Truef(t, strings.ContainsRune(PasswordAlphabet, r), "unexpected character %q", r)
		}
	}
}

func TestSecretGenerator_RejectsNonPositiveLength(t *testing.T) {
	gen := NewSecretGenerator()

	for _, length := range []int{0, -1} {
		secret, err := gen.Generate(length)
		assert.Error(t, err)
		assert.Empty(t, secret)
	}
}

func TestSecretGenerator_Uniqueness(t *testing.T) {
	gen := NewSecretGenerator()
	const samples = 5000

	seen := make(map[string]struct{}, samples)
	for i := 0; i < samples; i++ {
		secret, err := gen.Generate(25)
		require.NoError(t, err)
		_, dup := seen[secret]
		require.Falsef(t, dup, "collision after %d samples", i)
		seen[secret] = struct{}{}
	}
}

func TestSecretGenerator_Concurrent(t *testing.T) {
	gen := NewSecretGenerator()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out = make(map[string]struct{})
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s, err := gen.Generate(25)
				if err != nil {
					t.Errorf("generate: %v", err)
					return
				}
				mu.Lock()
				out[s] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, out, 1600)
}
