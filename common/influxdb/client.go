package influxdb

import (
	"sort"
	"strconv"
	"time"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/influxdata/influxdb/client/v2"
	"github.com/pkg/errors"
)

// Client reports app metrics to InfluxDB. Without an address and a database
// it is a stub that only logs the metrics.
type Client struct {
	isStub bool

	database       string
	appName        string
	influxdbClient client.Client
	tickerChannel  *time.Ticker
	stop           chan struct{}
}

func createHttpClient(addr string) (client.Client, error) {
	return client.NewHTTPClient(client.HTTPConfig{
		Addr: addr,
	})
}

func NewClient(appName string, addr string, db string) (*Client, error) {
	stubClient := &Client{
		isStub:  true,
		appName: appName,
		stop:    make(chan struct{}),
	}

	if addr == "" && db == "" {
		utils.Debug("influxdb", "No client has been configured")
		return stubClient, nil
	}

	if addr == "" || db == "" {
		return stubClient, errors.New("influxdb needs both an address and a database")
	}

	influxdbClient, err := createHttpClient(addr)
	if err != nil {
		return stubClient, errors.Wrap(err, "could not create influxdb client")
	}

	utils.Debug("influxdb", "Influxdb reporting is enabled")

	return &Client{
		isStub: false,

		database:       db,
		appName:        appName,
		influxdbClient: influxdbClient,
		stop:           make(chan struct{}),
	}, nil
}

func (c *Client) IsStub() bool {
	return c.isStub
}

func (c *Client) WriteAppMetric(name string, fields map[string]interface{}) error {
	if c.isStub {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		str := name
		for _, k := range keys {
			str += " " + k + "=" + formatField(fields[k])
		}

		utils.Debug("influxdb-debug", str)
		return nil
	}

	batchpoints, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database: c.database,
	})
	if err != nil {
		return errors.Wrap(err, "could not create batch points")
	}

	tags := map[string]string{"app": c.appName}

	pt, err := client.NewPoint(name, tags, fields, time.Now())
	if err != nil {
		return errors.Wrap(err, "could not create point "+name)
	}

	batchpoints.AddPoint(pt)

	return c.influxdbClient.Write(batchpoints)
}

func formatField(v interface{}) string {
	switch value := v.(type) {
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	}

	return "?"
}

// Loop calls fn every period until TearDown.
func (c *Client) Loop(period time.Duration, fn func()) {
	c.tickerChannel = time.NewTicker(period)
	ticker := c.tickerChannel

	go func() {
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

func (c *Client) TearDown() {
	if c.tickerChannel != nil {
		c.tickerChannel.Stop()
	}

	close(c.stop)

	if c.influxdbClient != nil {
		c.influxdbClient.Close()
	}
}
