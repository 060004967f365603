// Package config loads arbor.yaml (or arbor.json) for the arbor CLI.
//
// Both files use the same schema; JSON is read through the YAML decoder.
// Unknown keys are rejected.
//
// # Configuration File Structure
//
//	scheduler:
//	  minRemaining: 1ms   # yield when the slice has this much time left
//	  sliceBudget: 5ms    # time granted to each idle slice
//	serve:
//	  addr: localhost:8080
//	  metricsPath: /metrics
//	snapshot:
//	  bucket: my-bucket   # empty disables S3 snapshots
//	  prefix: arbor/
//	  region: eu-west-1
//	  endpoint: ""        # custom S3 endpoint, e.g. MinIO
//	log:
//	  level: info         # debug, info, warn, error
//	  format: text        # text or json
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, err := cfg.Log.Logger(os.Stderr)
package config
