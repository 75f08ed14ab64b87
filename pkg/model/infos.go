package model

// FeatureInfo describes one field of the flagged dataset.
type FeatureInfo struct {
	Dtype string `json:"dtype,omitempty"`
	Type  string `json:"_type,omitempty"`
}

// FlaggedInfos holds the per-field type map.
type FlaggedInfos struct {
	Features map[string]FeatureInfo `json:"features"`
}

// DatasetInfos is the metadata document written once when a remote dataset
// log is first created. It is never updated afterwards, so it only reflects
// the component list in effect at creation time.
type DatasetInfos struct {
	Flagged FlaggedInfos `json:"flagged"`
}

// NewDatasetInfos builds the infos document for a component list.
func NewDatasetInfos(components []Component) DatasetInfos {
	features := make(map[string]FeatureInfo, len(components)+1)
	for i, c := range components {
		name := c.FieldName(i)
		features[name] = FeatureInfo{Dtype: "string", Type: "Value"}
		if c.HasFilePreview() {
			features[name+" file"] = FeatureInfo{Type: c.PreviewType()}
		}
	}
	features["flag"] = FeatureInfo{Dtype: "string", Type: "Value"}
	return DatasetInfos{Flagged: FlaggedInfos{Features: features}}
}
