package progress_broker

import (
	"context"
	"encoding/json"
	"fmt"
	"motion-box/internal/utils"
)

type ProgressBroker struct {
	// Name of the Dapr Component to use
	componentName string
	// Name of the topic to publish into
	topic string
	// Client to publish event into
	client utils.Publisher
	// Current running context
	ctx *context.Context
}

type RenderState int8

const (
	InProgress RenderState = iota
	Done
	Error
)

func (s RenderState) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Done:
		return "done"
	case Error:
		return "error"
	}
	return fmt.Sprintf("unknown(%d)", int8(s))
}

// RenderInfos State of a render job, as published on the topic
type RenderInfos struct {
	JobId string      `json:"jobId"`
	State RenderState `json:"state"`
	Data  interface{} `json:"data"`
}

type NewBrokerOptions struct {
	Component string
	Topic     string
}

func NewProgressBroker(ctx *context.Context, client utils.Publisher, opt NewBrokerOptions) (*ProgressBroker, error) {
	if opt.Component == "" || opt.Topic == "" {
		return nil, fmt.Errorf("both a pubsub component and a topic are required, got %+v", opt)
	}
	return &ProgressBroker{
		componentName: opt.Component,
		topic:         opt.Topic,
		client:        client,
		ctx:           ctx,
	}, nil
}

// SendProgress Publish the state of a job
func (pb *ProgressBroker) SendProgress(data RenderInfos) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return pb.client.PublishEvent(*pb.ctx, pb.componentName, pb.topic, string(b))
}
