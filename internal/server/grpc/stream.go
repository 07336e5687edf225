package grpc

import (
	"context"
	"io"

	pb "github.com/dmitrijs2005/tsn/internal/proto"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// timelineStream adapts the generated stream to session.Stream.
type timelineStream struct {
	stream pb.TSNService_TimelineServer
}

func (t *timelineStream) Context() context.Context {
	return t.stream.Context()
}

func (t *timelineStream) Recv() (models.Post, error) {
	m, err := t.stream.Recv()
	if err != nil {
		if status.Code(err) == codes.Canceled {
			return models.Post{}, io.EOF
		}
		return models.Post{}, err
	}
	return fromWire(m), nil
}

func (t *timelineStream) Send(p models.Post) error {
	return t.stream.Send(toWire(p))
}

func fromWire(m *pb.Post) models.Post {
	p := models.Post{Sender: m.GetUsername(), Text: m.GetText()}
	if ts := m.GetTimestamp(); ts != nil {
		p.Timestamp = ts.AsTime()
	}
	return p
}

func toWire(p models.Post) *pb.Post {
	m := &pb.Post{Username: p.Sender, Text: p.Text}
	if !p.Timestamp.IsZero() {
		m.Timestamp = timestamppb.New(p.Timestamp)
	}
	return m
}
