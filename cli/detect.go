package cli

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/detectd/logging"
	inferencepb "go.viam.com/detectd/proto/inference/v1"
	"go.viam.com/detectd/services/inference"
	"go.viam.com/detectd/utils"
)

// DetectAction is the corresponding Action for 'detect'. It prints one row per detection and
// keeps going when an image fails, reporting every failure at the end.
func DetectAction(c *cli.Context) (err error) {
	if c.NArg() == 0 {
		return errors.New("no image files given")
	}
	logger := logging.NewBlankLogger("detectd")
	if c.Bool(flagDebug) {
		logger = logging.NewDebugLogger("detectd")
	}

	retries := c.Int(flagRetries)
	if retries <= 0 {
		retries = -1
	}
	client, err := inference.NewClient(inference.ClientConfig{
		Address:    c.String(flagAddress),
		Timeout:    c.Duration(flagTimeout),
		MaxRetries: retries,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, client.Close())
	}()

	paths := c.Args().Slice()
	rows := make([][]table.Row, len(paths))
	err = utils.ForEachInParallel(c.Context, len(paths), c.Int(flagParallel), func(ctx context.Context, i int) error {
		resp, err := client.DetectFromFile(ctx, paths[i])
		if err != nil {
			rows[i] = []table.Row{{paths[i], "", "", "", err.Error()}}
			return errors.Wrap(err, paths[i])
		}
		if len(resp.GetDetections()) == 0 {
			rows[i] = []table.Row{{paths[i], "", "no objects", "", ""}}
		}
		for j, det := range resp.GetDetections() {
			rows[i] = append(rows[i], detectionRow(paths[i], j, det))
		}
		return nil
	})

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Image", "#", "Class", "Confidence", "Box"})
	for _, imageRows := range rows {
		t.AppendRows(imageRows)
	}
	fmt.Fprintln(c.App.Writer, t.Render())
	return err
}

func detectionRow(path string, i int, det *inferencepb.Detection) table.Row {
	conf := "-"
	if det.Confidence != nil {
		conf = fmt.Sprintf("%.3f", det.GetConfidence())
	}
	r := det.GetRectangle()
	return table.Row{
		path,
		fmt.Sprintf("%d", i+1),
		det.GetClassName(),
		conf,
		fmt.Sprintf("(%.1f, %.1f)-(%.1f, %.1f)", r.GetX0(), r.GetY0(), r.GetX1(), r.GetY1()),
	}
}
