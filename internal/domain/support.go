package domain

import "davitframe/internal/geom"

// SupportBar is an angled strut running from a foundation plate up to a vertical tube
type SupportBar struct {
	Tube
	Angle  float64 `json:"angle"`
	Plate  Plate   `json:"plate"`
	TubeID string  `json:"tube_id,omitempty"`
}

// MakeSupportBar creates a bar from foot (on the plate) to top (on the frame).
// angle is the bar's elevation above the foundation plane in degrees.
func MakeSupportBar(foot, top geom.Point3D, diameter, angle float64, plate Plate) (SupportBar, error) {
	if !(angle > 0 && angle < 90) {
		return SupportBar{}, dimensionError("support_bar_angle", angle, "must be between 0 and 90 degrees")
	}
	tube, err := MakeTube(foot, top, diameter)
	if err != nil {
		return SupportBar{}, err
	}
	return SupportBar{Tube: tube, Angle: angle, Plate: plate}, nil
}
