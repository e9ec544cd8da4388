package pipeline_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/calloutgen/pkg/pipeline"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

func ExampleRunner_Process() {
	doc, err := scene.Read(strings.NewReader(`{
	  "name": "Demo",
	  "pages": [{"name": "Page 1", "children": [{
	    "id": "1:1", "type": "FRAME",
	    "absoluteBoundingBox": {"x": 0, "y": 0, "width": 200, "height": 100},
	    "children": [{
	      "id": "1:2", "type": "RECTANGLE",
	      "absoluteBoundingBox": {"x": 150, "y": 40, "width": 20, "height": 20},
	      "annotations": [{"label": "Submit"}]
	    }]
	  }]}]
	}`), scene.FormatJSON)
	if err != nil {
		panic(err)
	}

	runner := pipeline.NewRunner(nil, nil, nil, nil)
	result, err := runner.Process(context.Background(), doc, pipeline.Options{Formats: []string{"svg"}})
	if err != nil {
		panic(err)
	}
	fmt.Println(result.Notification.Message)
	fmt.Println(len(result.Artifacts["svg"]) > 0)
	// Output:
	// Generated 1 callout across 1 frame
	// true
}
