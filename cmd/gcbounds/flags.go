package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/mastercactapus/gcbounds/config"
	"github.com/mastercactapus/gcbounds/volume"
	"github.com/pkg/errors"
)

// volumeFlags describe a build volume on the command line. Flags that were
// set override the profile.
type volumeFlags struct {
	profile   *string
	bedType   *string
	bedSize   *string
	bedOrigin *string
	radius    *float64
	maxZ      *float64
}

func addVolumeFlags(fs *flag.FlagSet, profile string) *volumeFlags {
	return &volumeFlags{
		profile:   fs.String("profile", profile, "YAML machine profile to load."),
		bedType:   fs.String("bed-type", "rectangle", "Bed shape (rectangle, circle or polygon)."),
		bedSize:   fs.String("bed-size", "", "Rectangular bed size as X,Y,Z in mm."),
		bedOrigin: fs.String("bed-origin", "0,0", "Rectangular bed origin as X,Y in mm."),
		radius:    fs.Float64("radius", 0, "Circular bed radius in mm."),
		maxZ:      fs.Float64("max-z", 0, "Maximum Z height in mm (0 disables the check)."),
	}
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Errorf("expected %d comma separated values, got '%s'", n, s)
	}
	res := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i+1)
		}
		res[i] = v
	}
	return res, nil
}

// Descriptor merges the profile with the flags set on fs.
func (vf *volumeFlags) Descriptor(fs *flag.FlagSet) (volume.Descriptor, error) {
	var d volume.Descriptor
	var err error
	if *vf.profile != "" {
		d, err = config.LoadProfile(*vf.profile)
		if err != nil {
			return d, err
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["bed-type"] || d.Shape == "" {
		d.Shape = volume.ShapeKind(*vf.bedType)
	}
	if set["bed-size"] {
		v, err := parseFloats(*vf.bedSize, 3)
		if err != nil {
			return d, errors.Wrap(err, "bed-size")
		}
		d.Size = [2]float64{v[0], v[1]}
		d.MaxZ = v[2]
	}
	if set["bed-origin"] {
		v, err := parseFloats(*vf.bedOrigin, 2)
		if err != nil {
			return d, errors.Wrap(err, "bed-origin")
		}
		d.Origin = [2]float64{v[0], v[1]}
	}
	if set["radius"] {
		d.Radius = *vf.radius
	}
	if set["max-z"] {
		d.MaxZ = *vf.maxZ
	}

	return d, nil
}
