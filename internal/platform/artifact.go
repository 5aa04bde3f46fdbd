package platform

import (
	"context"
	"sync"
)

// ArtifactName returns the release asset name for tool on this platform,
// e.g. "biome-linux-x64-musl" or "biome-win32-arm64.exe".
func (k Key) ArtifactName(tool string) string {
	osName := k.OS
	if osName == OSWindows {
		osName = "win32"
	}

	name := tool + "-" + osName + "-" + k.Arch
	if k.Libc == LibcMusl {
		name += "-musl"
	}
	if k.OS == OSWindows {
		name += ".exe"
	}
	return name
}

// Identifier resolves the artifact name of one tool for the current machine.
// Once the detector has answered, its result (including an unsupported
// platform) is kept; a failed Detect call is retried on the next use.
type Identifier struct {
	detector Detector
	tool     string

	mu   sync.Mutex
	done bool
	key  Key
	err  error
}

// NewIdentifier creates an Identifier for tool backed by detector.
func NewIdentifier(tool string, detector Detector) *Identifier {
	return &Identifier{detector: detector, tool: tool}
}

// Key returns the platform key, detecting it on first use.
func (i *Identifier) Key(ctx context.Context) (Key, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.done {
		info, err := i.detector.Detect(ctx)
		if err != nil {
			return Key{}, err
		}
		i.key, i.err = info.Key()
		i.done = true
	}
	return i.key, i.err
}

// ArtifactName returns the artifact name for the identifier's tool.
func (i *Identifier) ArtifactName(ctx context.Context) (string, error) {
	key, err := i.Key(ctx)
	if err != nil {
		return "", err
	}
	return key.ArtifactName(i.tool), nil
}
