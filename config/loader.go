// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/internal/compression"
	"github.com/tochemey/stage/log"
)

// EnvPrefix prefixes the environment variables overriding file settings
const EnvPrefix = "STAGE"

type natsFile struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subjectPrefix"`
	Timeout       string `yaml:"timeout"`
}

type fileConfig struct {
	Name string `yaml:"name"`
	Node struct {
		ID   string `yaml:"id"`
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"node"`
	AllowLoopback  *bool  `yaml:"allowLoopback"`
	DefaultTimeout string `yaml:"defaultTimeout"`
	Compression    string `yaml:"compression"`
	LogLevel       string `yaml:"logLevel"`
	NATS           *natsFile `yaml:"nats"`
}

// Load reads a YAML configuration file. Environment variables STAGE_NAME,
// STAGE_LOG_LEVEL and STAGE_NATS_URL override the file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file (%s): %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML content
func Parse(data []byte) (*Config, error) {
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	loadFromEnv(&file)

	var options []Option
	if file.Node.Host != "" || file.Node.ID != "" {
		node := address.NewNodeIdentity(file.Node.Host, file.Node.Port)
		if file.Node.ID != "" {
			node = address.NewNodeIdentityWithID(file.Node.ID, file.Node.Host, file.Node.Port)
		}
		options = append(options, WithNode(node))
	}

	if file.AllowLoopback != nil {
		options = append(options, WithAllowLoopback(*file.AllowLoopback))
	}

	if file.DefaultTimeout != "" {
		timeout, err := time.ParseDuration(file.DefaultTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid defaultTimeout (%s): %w", file.DefaultTimeout, err)
		}
		options = append(options, WithDefaultTimeout(timeout))
	}

	algorithm, err := compression.ParseAlgorithm(file.Compression)
	if err != nil {
		return nil, err
	}
	options = append(options, WithCompression(algorithm))

	if file.LogLevel != "" {
		level := log.ParseLevel(file.LogLevel)
		if level == log.InvalidLevel {
			return nil, fmt.Errorf("invalid logLevel (%s)", file.LogLevel)
		}
		options = append(options, WithLogLevel(level))
	}

	if file.NATS != nil {
		var timeout time.Duration
		if file.NATS.Timeout != "" {
			if timeout, err = time.ParseDuration(file.NATS.Timeout); err != nil {
				return nil, fmt.Errorf("invalid nats timeout (%s): %w", file.NATS.Timeout, err)
			}
		}
		options = append(options, WithNATS(file.NATS.URL, file.NATS.SubjectPrefix, timeout))
	}

	return New(file.Name, options...)
}

func loadFromEnv(file *fileConfig) {
	if val := os.Getenv(EnvPrefix + "_NAME"); val != "" {
		file.Name = val
	}
	if val := os.Getenv(EnvPrefix + "_LOG_LEVEL"); val != "" {
		file.LogLevel = val
	}
	if val := os.Getenv(EnvPrefix + "_NATS_URL"); val != "" {
		if file.NATS == nil {
			file.NATS = new(natsFile)
		}
		file.NATS.URL = val
	}
}
