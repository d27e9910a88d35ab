package crawl

import (
	"net/url"
	"strings"
	"time"
)

// Config holds configuration for both crawlers.
type Config struct {
	// APIURL is the REST countries endpoint returning every country.
	APIURL string `mapstructure:"api_url" default:"https://restcountries.com/v3.1/all"`
	// Fields is the field selector sent with the API request.
	Fields []string `mapstructure:"fields" default:"name,cca3,region,subregion,capital,population,area,latlng,currencies,languages"`
	// WikiURL is the page holding the capitals table.
	WikiURL string `mapstructure:"wiki_url" default:"https://en.wikipedia.org/wiki/List_of_national_capitals"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
	// RetryAttempts is the number of tries for a transient failure.
	RetryAttempts int `mapstructure:"retry_attempts" default:"3"`
	// RetryDelayMS is the first backoff delay, doubled after every try.
	RetryDelayMS int `mapstructure:"retry_delay_ms" default:"500"`
}

// Timeout returns the per-request timeout, 20s when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RequestURL returns the API URL with the fields selector applied.
func (c Config) RequestURL() (string, error) {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return "", err
	}

	fields := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	q.Set("fields", strings.Join(fields, ","))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
