// Package mlruntime owns the single process-wide ONNX Runtime environment
// shared by the embedding and reranking services. ONNX Runtime's C API has
// exactly one global environment per process; this package is the one call
// site that initializes and tears it down.
package mlruntime

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	mu          sync.Mutex
	initialized bool
)

// ErrAlreadyInitialized is returned by Initialize when called a second time.
var ErrAlreadyInitialized = fmt.Errorf("ONNX runtime environment already initialized")

// Initialize sets the shared-library path and brings up the ONNX Runtime
// environment. It must be called exactly once before constructing any
// embedding or reranking service; a second call fails loudly rather than
// silently reusing the existing environment.
func Initialize(libraryPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return ErrAlreadyInitialized
	}

	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize ONNX runtime environment: %w", err)
	}

	initialized = true
	return nil
}

// Shutdown tears down the environment. Safe to call even if Initialize was
// never called or already failed.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()

	if !initialized {
		return nil
	}
	initialized = false
	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("destroy ONNX runtime environment: %w", err)
	}
	return nil
}

// Initialized reports whether the environment is currently up.
func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}
