package addon

import (
	"fmt"
	"path/filepath"
)

// variantFolders maps each variant to its conventional folder in the game directory.
var variantFolders = map[Variant]string{
	Retail:  "_retail_",
	Classic: "_classic_era_",
}

// InstallDir returns the directory packages of variant are installed into.
func InstallDir(gameDir string, variant Variant) (string, error) {
	if gameDir == "" {
		return "", &ConfigError{Setting: "game.dir", Msg: "the game directory is not set"}
	}
	folder, ok := variantFolders[variant]
	if !ok {
		return "", fmt.Errorf("unknown game variant %q", variant)
	}
	return filepath.Join(gameDir, folder, "Interface", "AddOns"), nil
}
