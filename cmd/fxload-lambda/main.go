// Command fxload-lambda runs one pipeline per AWS Lambda invocation.
// Configuration comes from the function's PIPELINE_* environment.
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/vvka-141/fxload/internal/pipeline"
	"github.com/vvka-141/fxload/pkg/fxload"
)

func main() {
	h := &handler{
		lookup:    os.LookupEnv,
		newRunner: func(logger fxload.Logger) runner { return pipeline.New(logger) },
	}
	lambda.Start(h.Handle)
}
