package inference

import (
	"bytes"
	"context"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"go.viam.com/detectd/logging"
	"go.viam.com/detectd/rimage"
	"go.viam.com/detectd/vision/objectdetection"
)

// remoteDetector forwards rasters to another inference service.
type remoteDetector struct {
	client *Client
}

// NewRemoteDetector returns a detector backed by the inference service at cfg.Address. Rasters
// are sent losslessly as PNG so the remote sees exactly the pixels that were decoded here.
func NewRemoteDetector(cfg ClientConfig, logger logging.Logger) (objectdetection.Detector, error) {
	client, err := NewClient(cfg, logger.Sublogger("remote"))
	if err != nil {
		return nil, err
	}
	return &remoteDetector{client: client}, nil
}

// NewRemoteDetectorFromClient is NewRemoteDetector for an existing client. Closing the detector
// closes the client.
func NewRemoteDetectorFromClient(client *Client) objectdetection.Detector {
	return &remoteDetector{client: client}
}

func (rd *remoteDetector) Detect(ctx context.Context, raster *rimage.Raster) ([]objectdetection.Detection, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, raster.Pixels, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "failed to encode raster for remote detector")
	}
	resp, err := rd.client.Detect(ctx, buf.Bytes())
	if err != nil {
		return nil, err
	}
	return DetectionsFromProto(resp), nil
}

func (rd *remoteDetector) Close(ctx context.Context) error {
	return rd.client.Close()
}
