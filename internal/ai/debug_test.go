package ai

import (
	"sync"
	"testing"
)

func TestEnableDebugLogging(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	for _, enabled := range []bool{true, false, true} {
		EnableDebugLogging(enabled)
		if got := IsDebugEnabled(); got != enabled {
			t.Errorf("IsDebugEnabled() = %v, want %v", got, enabled)
		}
	}
}

func TestIsDebugEnabled_Concurrent(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(false) })

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				EnableDebugLogging(i%2 == 0)
				_ = IsDebugEnabled()
			}
		}()
	}
	wg.Wait()
}
