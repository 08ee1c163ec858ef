package domain

// CRDVersion is the document format version written by this editor.
const CRDVersion = "1.0"

// CRDDescription is the fixed metadata description of exported documents.
const CRDDescription = "Created with Visual Editor"

// CRDFile is the on-disk ".crd" JSON document.
type CRDFile struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
	Canvas    CanvasProperties `json:"canvas"`
	Elements  []*Element       `json:"elements"`
	Metadata  Metadata         `json:"metadata"`
}

type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
