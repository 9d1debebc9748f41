package sand

import "fallsand/pkg/spatial"

// Material ids for the sand world. MatVoid doubles as the out-of-bounds
// sentinel, so edge-of-grid neighbors read as open air beyond a non-empty
// boundary. All ids must stay within spatial.MaterialMax.
const (
	MatVoid  = spatial.MaterialVoid
	MatWall  spatial.Material = 1
	MatStone spatial.Material = 2
	MatSand  spatial.Material = 3
	MatWater spatial.Material = 4
	MatPlant spatial.Material = 5

	matCount = 6
)

// materialNames is the exhaustive id-to-name table, maintained alongside
// the enumeration above.
var materialNames = [matCount]string{
	MatVoid:  "void",
	MatWall:  "wall",
	MatStone: "stone",
	MatSand:  "sand",
	MatWater: "water",
	MatPlant: "plant",
}

// MaterialName returns the display name for a material id.
func MaterialName(m spatial.Material) string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return "unknown"
}
