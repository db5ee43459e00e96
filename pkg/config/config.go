// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Reqs struct {
		CreateFormRequestType     string `yaml:"create_form_req_type"`
		UpdateFormRequestType     string `yaml:"update_form_req_type"`
		PublishFormRequestType    string `yaml:"publish_form_req_type"`
		AddQuestionRequestType    string `yaml:"add_question_req_type"`
		DeleteQuestionRequestType string `yaml:"delete_question_req_type"`
		UpdateQuestionRequestType string `yaml:"update_question_req_type"`
		AddOptionRequestType      string `yaml:"add_option_req_type"`
		DeleteOptionRequestType   string `yaml:"delete_option_req_type"`
		UpdateOptionRequestType   string `yaml:"update_option_req_type"`
		SubmitFormRequestType     string `yaml:"submit_form_req_type"`
		ExportFormRequestType     string `yaml:"export_form_req_type"`
	} `yaml:"reqs"`
	Urls struct {
		Mysql    string `yaml:"mysql" env:"MYSQL_DSN"`
		Redis    string `yaml:"redis" env:"REDIS_URL"`
		Rabbitmq string `yaml:"rabbitmq" env:"RABBITMQ_URL"`
	} `yaml:"urls"`
	Exchange struct {
		Request string `yaml:"request"`
		Output  string `yaml:"output"`
	} `yaml:"exchange"`
	Queue struct {
		Request string `yaml:"request"`
		Output  string `yaml:"output"`
	} `yaml:"queue"`
	HealthPort string `yaml:"health_port" env:"HEALTH_PORT"`
}

func Init(path string) (*Config, error) {
	var cfg Config

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error open file: %v", err)
	}

	defer file.Close()

	if err = yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}

	// Environment variables take precedence over file values.
	if err = env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env override error: %v", err)
	}

	return &cfg, nil
}
