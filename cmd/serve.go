package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/dapr/go-sdk/client"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"io"
	"motion-box/pkg/config"
	console_parser "motion-box/pkg/encoder/console-parser"
	object_storage "motion-box/pkg/object-storage"
	progress_broker "motion-box/pkg/progress-broker"
	render_box "motion-box/pkg/render-box"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Render videos on request, reading and writing assets through a Dapr object storage",
		Long: `Start an HTTP server rendering videos from assets held in a Dapr object storage.

Routes:
  POST /render   Render a video, either from a raw render request or a Dapr pubsub event.
                 The response is only sent once the video is uploaded.
  GET  /healthz  Health check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load()
			if err != nil {
				return err
			}
			comp, err := loadComponents(cmd.Context(), conf)
			if err != nil {
				return err
			}
			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", conf.AppPort),
				Handler: newServeMux(comp),
			}
			go func() {
				<-cmd.Context().Done()
				_ = server.Close()
			}()
			log.Infof("Started server on PORT %d", conf.AppPort)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}

// Some kind of a root DI container
type components[T object_storage.BindingProxy] struct {
	// Object backend storage
	objStore *object_storage.ObjectStorage[T]
	// Event broker, can be nil
	broker *progress_broker.ProgressBroker
	// Options of every render box
	opt render_box.RenderBoxOptions
}

func newServeMux[T object_storage.BindingProxy](comp components[T]) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/render", func(w http.ResponseWriter, req *http.Request) {
		renderSync(w, req, comp)
	})
	mux.HandleFunc("/healthz", healthz)
	return mux
}

// Fire a new render
// /!\ An HTTP return code 200 will only be returned **after** the render is done /!\
// This function is intended to be used with a messaging service. This way, the message will
// only be deleted from the messaging service after we made sure the processing is complete
// Although it's still possible to use it in plain HTTP, you'd have to set the HTTP_SESSION
// max time to 0
func renderSync[T object_storage.BindingProxy](w http.ResponseWriter, req *http.Request, comp components[T]) {
	// Confirm Dapr subscription
	if req.Method == http.MethodOptions {
		_, _ = w.Write([]byte("OK"))
		return
	}
	if req.Body != nil {
		defer req.Body.Close()
	}

	renderRequest, err := makeRenderRequest(req.Body)
	if err != nil {
		log.Warnf(`Wrong render request received : %s`, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Every object storage call made for this request stops with it
	reqCtx := req.Context()
	comp.objStore = comp.objStore.WithContext(&reqCtx)

	// And launch the render process...
	log.Infof(`New render request with id "%s" received !`, renderRequest.JobId)
	workDir, err := os.MkdirTemp("", "render-instance")
	if err != nil {
		http.Error(w, fmt.Sprintf("can't create temp workDir : %s", err.Error()), http.StatusInternalServerError)
		return
	}
	// Clean up temp files on the container filesystem
	// Downloaded assets are already cleaned up by the render-box itself
	defer func() {
		log.Infof(`Removing working directory "%s" from the local filesystem`, workDir)
		if err := os.RemoveAll(workDir); err != nil {
			log.Warnf(`Could not remove directory "%s" : %s`, workDir, err.Error())
		}
	}()
	outputName := fmt.Sprintf("%s.mp4", renderRequest.JobId)
	outputPath := filepath.Join(workDir, outputName)
	code, err := render(reqCtx, comp, renderRequest, outputPath)
	if err != nil {
		log.Errorf(`error while processing render request "%+v" : %s`, *renderRequest, err.Error())
		http.Error(w, err.Error(), code)
		return
	}

	// Once the render is complete, upload the resulting video on the backend object storage...
	log.Infof(`Uploading "%s" on the backend object storage`, outputPath)
	err = comp.objStore.Upload(outputPath, outputName)
	if err != nil {
		log.Errorf(`error while upload the video in the backend object storage : %s`, err.Error())
		http.Error(w, "Unexpected error", http.StatusInternalServerError)
		return
	}
	log.Infof(`Processing of request with id "%s" complete !`, renderRequest.JobId)

	// Optionally, we can also clean up the used assets from the remote object storage
	if renderRequest.Options.DeleteAssetsFromObjStore {
		log.Infof("Removing used assets from remote object storage")
		if err = cleanUpFromObjectStore(renderRequest, comp.objStore); err != nil {
			log.Warn(err.Error())
		}
	}
	// Finally, ACK the message
	_, _ = w.Write([]byte("OK"))
}

// Health endpoint
func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Attempt to parse a body into a render request
// Two types of body have to be supported : a dapr event or a raw body
func parseBody(from io.Reader) (*render_box.RenderRequest, error) {
	contents, err := io.ReadAll(from)
	if err != nil {
		return nil, err
	}

	// First, try to parse the body as a dapr event
	var dEvt DaprEvent
	if err = json.NewDecoder(bytes.NewReader(contents)).Decode(&dEvt); err != nil {
		return nil, err
	}
	// If "Type" and "Topic" are in the struct, this should be a dapr event,
	// in which case the payload is in "Data"
	if dEvt.Type != "" && dEvt.Topic != "" {
		return &dEvt.Data, nil
	}

	// Else, try to parse the request as a raw render request
	var rReq render_box.RenderRequest
	if err = json.NewDecoder(bytes.NewReader(contents)).Decode(&rReq); err != nil {
		return nil, err
	}
	return &rReq, nil
}

func cleanUpFromObjectStore[T object_storage.BindingProxy](rReq *render_box.RenderRequest, objStore *object_storage.ObjectStorage[T]) error {
	var failures []string
	for _, key := range []string{rReq.AudioKey, rReq.CoverKey} {
		if err := objStore.Delete(key); err != nil {
			failures = append(failures, key)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf(`failed to delete "%s" from remote object storage`, strings.Join(failures, ", "))
	}
	return nil
}

// Format a proper render request from a stream
func makeRenderRequest(from io.Reader) (*render_box.RenderRequest, error) {
	if from == nil || from == http.NoBody {
		return nil, fmt.Errorf("no body provided")
	}
	rReq, err := parseBody(from)
	if err != nil {
		return nil, err
	}
	// Sanity checks
	if rReq.JobId == "" {
		return nil, fmt.Errorf("no job id provided")
	}
	// The job id names the output file and its object storage key
	if !isSafeJobId(rReq.JobId) {
		return nil, fmt.Errorf(`job id "%s" must be a plain file name`, rReq.JobId)
	}
	if err = rReq.Validate(); err != nil {
		return nil, err
	}
	return rReq, nil
}

func isSafeJobId(id string) bool {
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..") && filepath.Base(id) == id
}

// Fired when an error occurred while rendering a video
type renderError struct {
	// Error message
	Message string `json:"message"`
}

// Fire a new render, and wait for it to finish/error. Every step is published on the broker
func render[T object_storage.BindingProxy](ctx context.Context, comp components[T], req *render_box.RenderRequest, output string) (int, error) {
	rBox := render_box.NewRenderBox(&ctx, comp.objStore, &comp.opt)
	go rBox.Render(req, output)
	err := rBox.Wait(func(p *console_parser.EncodingProgress) {
		comp.publish(req.JobId, progress_broker.InProgress, p)
	})
	if err != nil {
		comp.publish(req.JobId, progress_broker.Error, renderError{Message: err.Error()})
		return http.StatusBadRequest, err
	}
	comp.publish(req.JobId, progress_broker.Done, rBox.Summary)
	return http.StatusOK, nil
}

// Publish a job state, if a broker is defined. A failure to publish never fails the render
func (c components[T]) publish(jobId string, state progress_broker.RenderState, data interface{}) {
	if c.broker == nil {
		return
	}
	err := c.broker.SendProgress(progress_broker.RenderInfos{
		JobId: jobId,
		State: state,
		Data:  data,
	})
	if err != nil {
		log.Warnf(`could not publish state "%s" of job "%s" : %s`, state, jobId, err.Error())
	}
}

func makeDaprClient(port int, maxRequestSizeMB int) (client.Client, error) {
	var opts []grpc.CallOption
	opts = append(opts, grpc.MaxCallRecvMsgSize(maxRequestSizeMB*1024*1024))
	conn, err := grpc.Dial(net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		grpc.WithDefaultCallOptions(opts...), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return client.NewClientWithConnection(conn), nil
}

// Initializes the server components from the configuration
func loadComponents(ctx context.Context, conf *config.Config) (components[client.Client], error) {
	comp := components[client.Client]{
		opt: render_box.RenderBoxOptions{
			ObjStoreMaxRetry: conf.ObjStoreMaxRetry,
			Dimensions:       conf.Dimensions,
		},
	}
	// First, load the object store. This is mandatory, if it's not defined, abort
	if conf.ObjectStoreName == "" {
		return comp, fmt.Errorf(`object store component is not defined, set %s`, config.OBJECT_STORE_NAME)
	}
	daprClient, err := makeDaprClient(conf.DaprGrpcPort, conf.DaprMaxRequestSizeMB)
	if err != nil {
		return comp, fmt.Errorf("cannot init dapr client : %w", err)
	}
	comp.objStore, err = object_storage.NewDaprObjectStorage(&ctx, daprClient, conf.ObjectStoreName)
	if err != nil {
		return comp, fmt.Errorf("cannot init object store : %w", err)
	}

	// Next, load the event broker. This is optional, the server can function without it defined
	if conf.PubSubName != "" {
		log.Info("The pubsub component is defined ! ")
		comp.broker, err = progress_broker.NewProgressBroker(&ctx, daprClient, progress_broker.NewBrokerOptions{
			Component: conf.PubSubName,
			Topic:     conf.PubSubTopic,
		})
		if err != nil {
			return comp, fmt.Errorf("could not create progress broker : %w", err)
		}
	}
	return comp, nil
}

// DaprEvent An event as forwarded by dapr
type DaprEvent struct {
	Type  string                   `json:"type"`
	Topic string                   `json:"topic"`
	Data  render_box.RenderRequest `json:"data"`
}
