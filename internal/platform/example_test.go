package platform_test

import (
	"context"
	"fmt"
	"log"

	"github.com/ZebulonRouseFrantzich/biomectl/internal/platform"
)

func ExampleIdentifier_ArtifactName() {
	id := platform.NewIdentifier("biome", platform.NewDetector())
	name, err := id.ArtifactName(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Artifact: %s\n", name)
}

func ExampleParseKey() {
	key, err := platform.ParseKey("linux", "aarch64", func() bool { return true })
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(key.ArtifactName("biome"))
	// Output: biome-linux-arm64-musl
}

func ExampleKey_ArtifactName() {
	key := platform.Key{OS: platform.OSWindows, Arch: platform.ArchX64}
	fmt.Println(key.ArtifactName("biome"))
	// Output: biome-win32-x64.exe
}
