package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/config"
	"github.com/urfave/cli"
)

func main() {
	app := makeapp()

	if err := app.Run(os.Args); err != nil {
		utils.FailWith(err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Description = "Synchronous spatial swarm simulator"
	app.Name = "geoswarm"
	app.Usage = "Run a swarm of geolocated agents in synchronous rounds"

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Run a simulation",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "config", Value: "", Usage: "YAML configuration file"},
				cli.IntFlag{Name: "rounds", Value: 0, Usage: "Number of rounds to run; 0 runs until interrupted"},
				cli.Float64Flag{Name: "range", Value: 500, Usage: "Communication range in metres"},
				cli.IntFlag{Name: "tps", Value: 10, Usage: "Number of rounds per second; 0 runs as fast as possible"},
				cli.IntFlag{Name: "grid", Value: 5, Usage: "Edge of the agent grid"},
				cli.BoolFlag{Name: "parallel", Usage: "Execute the agents of a round concurrently"},
				cli.Int64Flag{Name: "seed", Value: 0, Usage: "Seed of the agents random sources; 0 is random"},
				cli.StringFlag{Name: "strategy", Value: "bruteforce", Usage: "Neighbour discovery: bruteforce or indexed"},
				cli.StringFlag{Name: "program", Value: "gradient-walk", Usage: "Program run by every agent"},
				cli.IntFlag{Name: "viz-port", Value: 8081, Usage: "Port serving the viz"},
				cli.StringFlag{Name: "record-file", Value: "", Usage: "Destination file for recording the run"},
				cli.StringFlag{Name: "broker", Value: "", Usage: "Message broker host; empty keeps the broker in process"},
				cli.BoolFlag{Name: "open", Usage: "Open the viz in a browser at start"},
				cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			},
			Action: func(c *cli.Context) error {
				conf, err := loadConfig(c)
				if err != nil {
					return err
				}

				return runAction(conf, c.Bool("debug"), c.Bool("open"))
			},
		},
		{
			Name:  "layout",
			Usage: "Print the initial swarm layout as GeoJSON",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "config", Value: "", Usage: "YAML configuration file"},
				cli.IntFlag{Name: "grid", Value: 5, Usage: "Edge of the agent grid"},
			},
			Action: func(c *cli.Context) error {
				conf, err := loadConfig(c)
				if err != nil {
					return err
				}

				data, err := conf.Swarm.Layout.GeoJSON().MarshalJSON()
				if err != nil {
					return err
				}

				fmt.Fprintln(c.App.Writer, string(data))
				return nil
			},
		},
		{
			Name:  "replay",
			Usage: "Replay a recorded run",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "record-file", Value: "", Usage: "Record archive to replay; required"},
				cli.IntFlag{Name: "tps", Value: 10, Usage: "Number of rounds per second; 0 replays as fast as possible"},
				cli.IntFlag{Name: "viz-port", Value: 0, Usage: "Port serving the viz; 0 disables it"},
				cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			},
			Action: func(c *cli.Context) error {
				if c.String("record-file") == "" {
					return cli.NewExitError("Please, specify the record to replay using --record-file", 1)
				}

				if !c.Bool("debug") {
					utils.LogFn = func(service, message string) {}
				}

				vizAddr := ""
				if c.Int("viz-port") > 0 {
					vizAddr = "0.0.0.0:" + strconv.Itoa(c.Int("viz-port"))
				}

				return replayAction(c.String("record-file"), c.Int("tps"), vizAddr)
			},
		},
		{
			Name:  "programs",
			Usage: "List the built-in agent programs",
			Action: func(c *cli.Context) error {
				for _, name := range programNames() {
					fmt.Fprintln(c.App.Writer, name)
				}

				return nil
			},
		},
	}

	return app
}

func loadConfig(c flagContext) (*config.Config, error) {
	conf := config.DefaultConfig()

	if filename := c.String("config"); filename != "" {
		loaded, err := config.LoadFile(filename)
		if err != nil {
			return nil, err
		}

		conf = loaded
	} else if err := conf.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	applyFlags(conf, c)

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
