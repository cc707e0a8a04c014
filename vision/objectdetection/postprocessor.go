package objectdetection

// Postprocessor defines a function that filters/modifies on an incoming array of Detections.
// It must not reorder the detections it keeps.
type Postprocessor func([]Detection) []Detection

// NewAreaFilter returns a function that filters out detections below a certain area.
func NewAreaFilter(area float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Rect.Area() >= area {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewScoreFilter returns a function that filters out detections below a certain confidence.
// Detections without a confidence are kept.
func NewScoreFilter(conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if score, ok := d.Score(); ok && score < conf {
				continue
			}
			out = append(out, d)
		}
		return out
	}
}

// NewLabelFilter returns a function that keeps only detections whose class is one of labels.
// An empty label list keeps everything.
func NewLabelFilter(labels []string) Postprocessor {
	keep := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		keep[l] = struct{}{}
	}
	return func(in []Detection) []Detection {
		if len(keep) == 0 {
			return in
		}
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if _, ok := keep[d.Label()]; ok {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewClassNameResolver returns a function that names detections reporting only a ClassID, using
// names as the model's label list. IDs outside the list are left for Label to number.
func NewClassNameResolver(names []string) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.ClassName == "" && d.ClassID != nil && *d.ClassID >= 0 && *d.ClassID < len(names) {
				d.ClassName = names[*d.ClassID]
			}
			out = append(out, d)
		}
		return out
	}
}
