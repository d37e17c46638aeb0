package main

import (
	"MoodleWS/internal/config"
	"MoodleWS/internal/moodleapi"
	"MoodleWS/internal/moodleapi/options"
	"MoodleWS/internal/version"
	"MoodleWS/pkg/logging"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//TODO добавить флаг выбора HTTP метода для произвольного вызова

func main() {
	logger := logging.GetLogger()
	logger.Info("Start Main")
	v := version.GetVersion()
	logger.Infof("Version %s", v.String())
	defer logger.Info("End Main")

	cfg := config.GetConfig()

	var opts []options.Option
	if cfg.MOODLE.AcceptUntrustedCert == 1 {
		opts = append(opts, options.AcceptUntrustedCert(true))
	}
	if cfg.MOODLE.RestFormat != "" {
		opts = append(opts, options.RestFormat(cfg.MOODLE.RestFormat))
	}
	if cfg.MOODLE.Timeout != "" {
		opts = append(opts, options.TimeoutString(cfg.MOODLE.Timeout))
	}

	api, err := moodleapi.NewAPI(cfg.MOODLE.URL, cfg.MOODLE.Token, opts...)
	if err != nil {
		logger.Fatalf("failed moodleapi.NewAPI(), error: %v", err)
	}

	siteinfo, err := api.Call("ping", nil)
	if err != nil {
		logger.Fatalf("failed ping, error: %v", err)
	}
	logger.Info("Site is reachable")
	printResult(logger, siteinfo)

	// произвольный вызов: MoodleWS <wsfunction> [key=value ...]
	if len(os.Args) > 1 {
		wsfunction := os.Args[1]
		params := make(map[string]interface{})
		for _, arg := range os.Args[2:] {
			kv := strings.SplitN(arg, "=", 2)
			if len(kv) != 2 {
				logger.Fatalf("bad argument %q, want key=value", arg)
			}
			params[kv[0]] = kv[1]
		}

		result, err := api.Submit("GET", wsfunction, params)
		if err != nil {
			logger.Fatalf("failed %s, error: %v", wsfunction, err)
		}
		printResult(logger, result)
	}
}

func printResult(logger *logging.Logger, result interface{}) {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Errorf("failed json.MarshalIndent(), error: %v", err)
		return
	}
	fmt.Println(string(b))
}
