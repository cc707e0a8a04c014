package inference

import (
	"math"

	inferencepb "go.viam.com/detectd/proto/inference/v1"
	"go.viam.com/detectd/vision/objectdetection"
)

// Assemble fits raw detections to a width x height image and converts them to the wire form.
//
// A detection that carries only a class id is named after the id. Every corner is clamped into
// [0,width]x[0,height]. A box that encloses no area after clamping, including one with inverted
// or NaN corners, is dropped. Confidences are clamped into [0,1] and a NaN confidence is
// dropped. Output keeps the detector's order. Assembling the output again yields the same boxes.
func Assemble(raw []objectdetection.Detection, width, height int) (*inferencepb.DetectResponse, error) {
	if width <= 0 || height <= 0 {
		return nil, &AssemblyError{Index: -1, Reason: "image has no area"}
	}
	w, h := float64(width), float64(height)
	out := make([]*inferencepb.Detection, 0, len(raw))
	for i, d := range raw {
		label := d.Label()
		if label == "" {
			return nil, &AssemblyError{Index: i, Reason: "empty class name"}
		}
		rect := d.Rect.Clamp(w, h)
		if rect.Empty() {
			continue
		}
		out = append(out, &inferencepb.Detection{
			ClassName:  label,
			Rectangle:  &inferencepb.Rectangle{X0: rect.X0, Y0: rect.Y0, X1: rect.X1, Y1: rect.Y1},
			Confidence: clampConfidence(d.Confidence),
		})
	}
	return &inferencepb.DetectResponse{Detections: out}, nil
}

func clampConfidence(conf *float64) *float64 {
	if conf == nil || math.IsNaN(*conf) {
		return nil
	}
	c := math.Min(math.Max(*conf, 0), 1)
	return &c
}

// DetectionsFromProto converts a response back into detections, for clients and for detectors
// that forward to another service.
func DetectionsFromProto(resp *inferencepb.DetectResponse) []objectdetection.Detection {
	dets := make([]objectdetection.Detection, 0, len(resp.GetDetections()))
	for _, d := range resp.GetDetections() {
		r := d.GetRectangle()
		det := objectdetection.Detection{
			ClassName: d.GetClassName(),
			Rect:      objectdetection.Rectangle{X0: r.GetX0(), Y0: r.GetY0(), X1: r.GetX1(), Y1: r.GetY1()},
		}
		if d.Confidence != nil {
			conf := d.GetConfidence()
			det.Confidence = &conf
		}
		dets = append(dets, det)
	}
	return dets
}
