package models

import (
	"encoding/json"
	"strings"
)

// RawProduct is one record of the scraped catalog JSON consumed by the importer.
type RawProduct struct {
	Name            string          `json:"name"`
	Price           string          `json:"price"`
	DescriptionText string          `json:"description_text"`
	DescriptionHTML string          `json:"description_html"`
	Category        string          `json:"category"`
	Composition     CompositionList `json:"composition"`
	LocalImages     []RawImage      `json:"local_images"`
}

type RawImage struct {
	ImagePath         string `json:"image_path"`
	ImageRelativePath string `json:"image_relative_path"`
	ImageFilename     string `json:"image_filename"`
	ImageOrder        *int   `json:"image_order"`
}

// CompositionList accepts either a JSON array of strings or a single string.
type CompositionList []string

func (c *CompositionList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*c = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*c = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*c = nil
		return nil
	}
	*c = CompositionList{single}
	return nil
}
