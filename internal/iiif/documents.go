// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package iiif

// Context and profile URIs written into the generated documents.
const (
	ImageContext        = "http://iiif.io/api/image/2/context.json"
	ImageProtocol       = "http://iiif.io/api/image"
	Level0Profile       = "http://iiif.io/api/image/2/level0.json"
	PresentationContext = "http://iiif.io/api/presentation/2/context.json"
)

// profileDetail lists what a level 0 service can deliver.
type profileDetail struct {
	Formats   []string `json:"formats"`
	Qualities []string `json:"qualities"`
}

type tileSpec struct {
	Width        int   `json:"width"`
	Height       int   `json:"height"`
	ScaleFactors []int `json:"scaleFactors"`
}

// imageInfo is an Image API 2.1 info.json document.
type imageInfo struct {
	Context  string     `json:"@context"`
	ID       string     `json:"@id"`
	Protocol string     `json:"protocol"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Profile  []any      `json:"profile"`
	Sizes    []Size     `json:"sizes"`
	Tiles    []tileSpec `json:"tiles"`
}

type service struct {
	Context string `json:"@context"`
	ID      string `json:"@id"`
	Profile string `json:"profile"`
}

type imageResource struct {
	ID      string   `json:"@id"`
	Type    string   `json:"@type"`
	Format  string   `json:"format"`
	Height  int      `json:"height"`
	Width   int      `json:"width"`
	Service *service `json:"service,omitempty"`
}

type annotation struct {
	ID         string        `json:"@id"`
	Type       string        `json:"@type"`
	Motivation string        `json:"motivation"`
	Resource   imageResource `json:"resource"`
	On         string        `json:"on"`
}

type canvas struct {
	ID        string         `json:"@id"`
	Type      string         `json:"@type"`
	Label     string         `json:"label"`
	Height    int            `json:"height"`
	Width     int            `json:"width"`
	Thumbnail *imageResource `json:"thumbnail,omitempty"`
	Images    []annotation   `json:"images"`
}

type sequence struct {
	ID       string   `json:"@id"`
	Type     string   `json:"@type"`
	Canvases []canvas `json:"canvases"`
}

type metadataEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// manifest is a Presentation API 2 manifest.
type manifest struct {
	Context     string          `json:"@context"`
	ID          string          `json:"@id"`
	Type        string          `json:"@type"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Metadata    []metadataEntry `json:"metadata,omitempty"`
	Sequences   []sequence      `json:"sequences"`
}
