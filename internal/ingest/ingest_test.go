package ingest

import (
	"context"
	"errors"
	"testing"

	"hydration_monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    models.Sample
		wantErr bool
	}{
		{
			name:    "full sample",
			payload: `{"weight_g":1234.5,"orientation":{"x":0.1,"y":0,"z":0.99}}`,
			want:    models.Sample{WeightG: 1234.5, Orientation: models.Vector{X: 0.1, Z: 0.99}},
		},
		{name: "not json", payload: `weight=12`, wantErr: true},
		{name: "missing weight", payload: `{"orientation":{"x":0,"y":0,"z":1}}`, wantErr: true},
		{name: "missing orientation", payload: `{"weight_g":700}`, wantErr: true},
		{name: "wrong type", payload: `{"weight_g":"heavy","orientation":{"x":0,"y":0,"z":1}}`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.payload))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrMalformedPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type recordingSink struct {
	samples []models.Sample
	err     error
}

func (r *recordingSink) SubmitSample(ctx context.Context, s models.Sample) ([]models.EventRecord, error) {
	r.samples = append(r.samples, s)
	return nil, r.err
}

func TestSubscriber_Handle(t *testing.T) {
	sink := &recordingSink{}
	s := &Subscriber{topic: "bottle/samples", sink: sink}

	s.handle(context.Background(), []byte(`{"weight_g":900,"orientation":{"x":0,"y":0,"z":1}}`))
	s.handle(context.Background(), []byte(`garbage`))
	require.Len(t, sink.samples, 1)
	assert.Equal(t, 900.0, sink.samples[0].WeightG)

	sink.err = errors.New("invalid sample")
	s.handle(context.Background(), []byte(`{"weight_g":-1,"orientation":{"x":0,"y":0,"z":1}}`))
	assert.Len(t, sink.samples, 2)
}
