package main

import (
	"context"
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"fabric-inspector/config"
	"fabric-inspector/internal/container"
	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/infrastructure/storage"
)

var output = flag.StringP("output", "o", "", "Write the defect map JPEG to this path")
var artifactDir = flag.String("artifacts", "", "Load model artifacts from this directory instead of the configured source")
var verbose = flag.BoolP("verbose", "v", false, "Debug logging")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: inspect [-o defect-map.jpg] [--artifacts DIR] image.jpg\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Parse()
	if err != nil {
		log.Fatal(err)
	}
	container.SetupLogger(*verbose || cfg.IsDevelopment())
	ctx := context.Background()

	if *artifactDir != "" {
		cfg.ArtifactDir = *artifactDir
		cfg.MinioEndpoint = ""
	}
	source, err := container.NewArtifactSource(cfg)
	if err != nil {
		log.Fatal(err)
	}

	pipeline, err := container.LoadPipeline(ctx, source, container.PipelineOptionsFrom(cfg))
	if err != nil {
		log.Fatal(err)
	}
	c := container.New(storage.NewMemoryUserRepository(), pipeline, nil, nil)

	imageData, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	out, err := c.InspectionService.Analyze(ctx, entity.SourceCLI, imageData)
	if err != nil {
		log.Fatal(err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out.DefectMap, 0o644); err != nil {
			log.Fatal(err)
		}
	}

	v := out.Result.Verdict
	if v.Passed {
		fmt.Printf("QUALITY PASSED: %s\n", v.Label)
	} else {
		fmt.Printf("DEFECT DETECTED: %s\n", v.AnomalyType())
	}
	fmt.Printf("surface integrity: %s\nconfidence: %.2f\nrequest id: %s\n", v.SurfaceIntegrity(), out.Result.Confidence, out.Result.RequestID)
	if !v.Passed {
		os.Exit(1)
	}
}
