package render_box

// Asset An asset is a file the render needs, either local or in the backend storage
type Asset struct {
	// storage backend key, or local path, for this asset
	key string
	// Resolved path on the local filesystem
	path string
	// Either Cover or Audio
	media AssetMedia
	// Whether the file was fetched from the backend storage, and is ours to delete
	downloaded bool
}

type AssetMedia int8

const (
	Cover AssetMedia = iota
	Audio
)

func (m AssetMedia) String() string {
	if m == Cover {
		return "cover"
	}
	return "audio"
}

// AssetCollection an enhanced array of pointer to assets
type AssetCollection []*Asset

// NewAssetCollectionFrom Build an asset collection from a render request
func NewAssetCollectionFrom(req *RenderRequest) *AssetCollection {
	return &AssetCollection{
		{key: req.CoverKey, media: Cover},
		{key: req.AudioKey, media: Audio},
	}
}

// CoverPath Local path of the cover image, empty if not resolved yet
func (ac *AssetCollection) CoverPath() string {
	return ac.findPath(Cover)
}

// AudioPath Local path of the audio track, empty if not resolved yet
func (ac *AssetCollection) AudioPath() string {
	return ac.findPath(Audio)
}

func (ac *AssetCollection) findPath(media AssetMedia) string {
	for _, a := range *ac {
		if a.media == media {
			return a.path
		}
	}
	return ""
}
