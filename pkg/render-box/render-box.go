package render_box

import (
	"context"
	"fmt"
	"motion-box/pkg/effects"
	"motion-box/pkg/encoder"
	console_parser "motion-box/pkg/encoder/console-parser"
	"motion-box/pkg/encoder/filtergraph"
	"motion-box/pkg/logger"
	"os"
	"time"
)

var (
	log = logger.Build()
	// Wait unit between two attempts at downloading an asset. Attempt n waits (2^n) units
	backoffUnit = time.Second
)

// Downloader Fetch an asset from a backend storage, returning its local path
type Downloader interface {
	Download(key string) (*string, error)
}

type RenderBoxOptions struct {
	// Number of time to retry calls made to the object store.
	// Each call will be followed by a wait time of (2^attempt)s
	ObjStoreMaxRetry int8
	// Size of the rendered video
	Dimensions effects.Dimensions
	// Normalize the audio of every render, whatever the request says
	NormalizeAudio bool
}

// Summary What a render is made of, available once the render started encoding
type Summary struct {
	Seed       uint32             `json:"seed"`
	Parameters effects.Parameters `json:"parameters"`
	// Audio duration, in seconds
	Duration float64 `json:"duration"`
	Graph    string  `json:"graph"`
}

type RenderBox struct {
	// Assets Downloader. When nil, asset keys are local paths
	Downloader Downloader
	// Context
	Ctx context.Context
	// Cancel function
	Cancel context.CancelFunc
	// Error channel
	EChan chan error
	// Progress channel
	PChan chan *console_parser.EncodingProgress
	// Set before the encoding starts
	Summary *Summary
	// Context the box was created from
	parent context.Context
	// Behaviour options
	opt RenderBoxOptions
}

func NewRenderBox(ctx *context.Context, downloader Downloader, opt *RenderBoxOptions) *RenderBox {
	rCtx, cancel := context.WithCancel(*ctx)
	options := *opt
	if options.Dimensions == (effects.Dimensions{}) {
		options.Dimensions = effects.DefaultDimensions
	}
	return &RenderBox{
		Downloader: downloader,
		Ctx:        rCtx,
		Cancel:     cancel,
		EChan:      make(chan error),
		PChan:      make(chan *console_parser.EncodingProgress),
		parent:     *ctx,
		opt:        options,
	}
}

// Render Turn the request assets into a video written at output.
// Progress is sent into PChan, a failure into EChan. Ctx is cancelled once the render is over
func (rb *RenderBox) Render(req *RenderRequest, output string) {
	defer rb.Cancel()
	log.Infof(`Now processing render request %+v`, *req)
	if err := req.Validate(); err != nil {
		rb.sendError(err)
		return
	}

	assets := NewAssetCollectionFrom(req)
	log.Info(`Resolving required assets...`)
	err := rb.resolveAssets(assets)
	// Queue the assets cleaning up. Only what was downloaded is removed
	defer rb.cleanUpAssets(assets)
	if err != nil {
		log.Errorf(`Error while resolving assets : %s`, err)
		rb.sendError(err)
		return
	}

	enc, err := rb.setupEnc(req, assets, output)
	if err != nil {
		log.Errorf(`Error while setup encoding : %s`, err)
		rb.sendError(err)
		return
	}

	log.Debugf("Now executing FFMPEG cmd : %s", enc.GetCommandLine())
	go enc.Start()
	for {
		select {
		case p := <-enc.PChan:
			select {
			case rb.PChan <- p:
			case <-rb.Ctx.Done():
				return
			}
		case e := <-enc.EChan:
			rb.sendError(fmt.Errorf("error while encoding : %w", e))
			return
		case <-enc.Ctx.Done():
			return
		}
	}
}

// Wait Consume the channels of a running Render until it is over, handing every progress
// to onProgress. Return the render error, if any
func (rb *RenderBox) Wait(onProgress func(*console_parser.EncodingProgress)) error {
	var renderErr error
	for {
		select {
		case e := <-rb.EChan:
			renderErr = e
		case p := <-rb.PChan:
			if onProgress != nil {
				onProgress(p)
			}
		case <-rb.Ctx.Done():
			if renderErr != nil {
				return renderErr
			}
			return rb.parent.Err()
		}
	}
}

// Only send an error if someone is still listening
func (rb *RenderBox) sendError(err error) {
	select {
	case rb.EChan <- err:
	case <-rb.Ctx.Done():
	}
}

// Resolve every asset to a local path, concurrently. Without a downloader, keys are used as is
// and must exist. Modify the collection in place
func (rb *RenderBox) resolveAssets(assets *AssetCollection) error {
	if rb.Downloader == nil {
		for _, asset := range *assets {
			if _, err := os.Stat(asset.key); err != nil {
				return fmt.Errorf("%s not found : %w", asset.media, err)
			}
			asset.path = asset.key
		}
		return nil
	}

	errorChannel := make(chan error, len(*assets))
	successChannel := make(chan bool, len(*assets))
	// Fire all downloads concurrently
	for _, asset := range *assets {
		log.Debugf(`Downloading asset "%s"`, asset.key)
		go func(asset *Asset) {
			path, err := rb.download(asset.key)
			if err != nil {
				errorChannel <- fmt.Errorf("%s : %w", asset.media, err)
				return
			}
			asset.path = path
			asset.downloaded = true
			successChannel <- true
		}(asset)
	}

	// And wait for all of them. Every goroutine reports, so the collection is
	// no longer written to once this returns
	var firstErr error
	for range *assets {
		select {
		case e := <-errorChannel:
			if firstErr == nil {
				firstErr = e
			}
		case <-successChannel:
		}
	}
	if firstErr != nil {
		return fmt.Errorf("error while downloading required assets : %w", firstErr)
	}
	return nil
}

// Download a single key, retrying with an exponential backoff
func (rb *RenderBox) download(key string) (string, error) {
	var err error
	for attempts := int8(0); attempts <= rb.opt.ObjStoreMaxRetry; attempts++ {
		var pathPtr *string
		pathPtr, err = rb.Downloader.Download(key)
		if err == nil {
			return *pathPtr, nil
		}
		log.Warnf("error in attempt %d at downloading %s from the object storage : %s", attempts, key, err.Error())
		if attempts == rb.opt.ObjStoreMaxRetry {
			break
		}
		select {
		case <-time.After(backoffUnit << attempts):
		case <-rb.Ctx.Done():
			return "", rb.Ctx.Err()
		}
	}
	return "", err
}

// Remove downloaded assets from disk. Local files are left alone
func (rb *RenderBox) cleanUpAssets(assets *AssetCollection) {
	for _, asset := range *assets {
		if !asset.downloaded {
			continue
		}
		log.Infof("[Render box] :: Trying to delete asset %s", asset.path)
		if err := os.Remove(asset.path); err != nil {
			log.Warnf("[Render box] :: Could not delete asset %s", asset.path)
		}
		// Reset the asset path
		asset.path = ""
		asset.downloaded = false
	}
}

// Setup an Encoder instance from the resolved assets
func (rb *RenderBox) setupEnc(req *RenderRequest, assets *AssetCollection, output string) (*encoder.Encoder, error) {
	duration := encoder.ProbeDuration(assets.AudioPath())
	seed := effects.DeriveSeed(req.AudioKey)
	params := effects.Compute(seed)
	log.Infof("Effects for %s (seed %d) : %s", req.AudioKey, seed, params)

	graph, err := effects.BuildFilterGraph(params, rb.opt.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("error while building the filter graph : %w", err)
	}
	compiled, err := filtergraph.Compile(graph)
	if err != nil {
		return nil, fmt.Errorf("error while compiling the filter graph : %w", err)
	}
	enc, err := encoder.GetCoverAudioEnc(&rb.Ctx, assets.CoverPath(), assets.AudioPath(), graph, output, encoder.CoverAudioOptions{
		NormalizeAudio: rb.opt.NormalizeAudio || req.Options.NormalizeAudio,
		Duration:       time.Duration(duration * float64(time.Second)),
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating encoder : %w", err)
	}
	rb.Summary = &Summary{Seed: seed, Parameters: params, Duration: duration, Graph: compiled}
	return enc, nil
}

type RenderRequest struct {
	// Record UUID
	JobId string `json:"jobId"`
	// Storage backend key of the audio track. Also the identifier the effects are derived from
	AudioKey string `json:"audioKey"`
	// Storage backend key of the cover image
	CoverKey string `json:"coverKey"`
	// All available options for rendering
	Options RenderOptions `json:"options"`
}

// RenderOptions All valid render options
type RenderOptions struct {
	// Clean up used audio/cover assets if the render succeeded
	DeleteAssetsFromObjStore bool `json:"deleteAssetsFromObjStore"`
	// Run the audio through a loudness normalization
	NormalizeAudio bool `json:"normalizeAudio"`
}

// Validate Both assets are required
func (r *RenderRequest) Validate() error {
	if r.AudioKey == "" {
		return fmt.Errorf("no audio track provided")
	}
	if r.CoverKey == "" {
		return fmt.Errorf("no cover image provided")
	}
	return nil
}
