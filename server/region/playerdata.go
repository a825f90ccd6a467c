package region

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tesseract-mc/tesseract/server/nbt"
)

// PlayerData is the subset of a <uuid>.dat save the core restores a
// reconnecting player from: last position, rotation and dimension.
type PlayerData struct {
	Position  [3]float64
	Rotation  [2]float32
	Dimension string
}

// LoadPlayerData reads and decodes <dir>/<uuid>.dat.
func LoadPlayerData(dir string, uuid string) (PlayerData, error) {
	path := filepath.Join(dir, uuid+".dat")
	f, err := os.Open(path)
	if err != nil {
		return PlayerData{}, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return PlayerData{}, fmt.Errorf("region: %s: gzip: %w", path, err)
	}
	defer zr.Close()

	_, root, err := nbt.Decode(zr)
	if err != nil {
		return PlayerData{}, fmt.Errorf("region: %s: decode: %w", path, err)
	}

	data := PlayerData{Dimension: root.String("Dimension")}
	if _, v, ok := root.Get("Pos"); ok {
		if list, ok := v.(*nbt.List); ok {
			for i := 0; i < 3 && i < len(list.Values); i++ {
				if f, ok := list.Values[i].(float64); ok {
					data.Position[i] = f
				}
			}
		}
	}
	if _, v, ok := root.Get("Rotation"); ok {
		if list, ok := v.(*nbt.List); ok {
			for i := 0; i < 2 && i < len(list.Values); i++ {
				if f, ok := list.Values[i].(float32); ok {
					data.Rotation[i] = f
				}
			}
		}
	}
	return data, nil
}
