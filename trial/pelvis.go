package trial

import (
	"github.com/pkg/errors"

	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/referenceframe"
)

// PelvisMarkers names the four pelvis markers in a marker set.
type PelvisMarkers struct {
	LASI string `json:"lasi,omitempty"`
	RASI string `json:"rasi,omitempty"`
	LPSI string `json:"lpsi,omitempty"`
	RPSI string `json:"rpsi,omitempty"`
}

// DefaultPelvisMarkers returns the conventional anterior/posterior superior iliac spine labels.
func DefaultPelvisMarkers() PelvisMarkers {
	return PelvisMarkers{LASI: "LASI", RASI: "RASI", LPSI: "LPSI", RPSI: "RPSI"}
}

// WithDefaults fills empty names with the conventional labels.
func (pm PelvisMarkers) WithDefaults() PelvisMarkers {
	def := DefaultPelvisMarkers()
	if pm.LASI == "" {
		pm.LASI = def.LASI
	}
	if pm.RASI == "" {
		pm.RASI = def.RASI
	}
	if pm.LPSI == "" {
		pm.LPSI = def.LPSI
	}
	if pm.RPSI == "" {
		pm.RPSI = def.RPSI
	}
	return pm
}

// Names returns the four marker names.
func (pm PelvisMarkers) Names() []string {
	return []string{pm.LASI, pm.RASI, pm.LPSI, pm.RPSI}
}

// PelvisFrames builds the pelvis frame at every sample. The origin is the midpoint of the
// ASIS markers, e1 points from the sacrum (midpoint of the PSIS markers) to that origin and
// the lateral reference runs from LASI to RASI.
func PelvisFrames(set markers.Set, names PelvisMarkers) ([]referenceframe.LocalFrame, error) {
	pelvis, err := set.Subset(names.Names()...)
	if err != nil {
		return nil, err
	}
	if _, err := pelvis.NumSamples(); err != nil {
		return nil, err
	}
	sacrum, err := markers.Midpoint(pelvis[names.LPSI], pelvis[names.RPSI])
	if err != nil {
		return nil, err
	}
	origin, err := markers.Midpoint(pelvis[names.LASI], pelvis[names.RASI])
	if err != nil {
		return nil, err
	}
	longitudinal, err := markers.Subtract(origin, sacrum)
	if err != nil {
		return nil, err
	}
	lateral, err := markers.Subtract(pelvis[names.RASI], pelvis[names.LASI])
	if err != nil {
		return nil, err
	}
	e1, e2, e3, err := referenceframe.SegmentOrientation(longitudinal, lateral)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build pelvis frame")
	}
	return referenceframe.NewLocalFrames(origin, e1, e2, e3)
}
