/*******************************************************************************
*
* Copyright 2022 SAP SE
*
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You should have received a copy of the License along with this
* program. If not, you may obtain a copy of the License at
*
*     http://www.apache.org/licenses/LICENSE-2.0
*
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
*
*******************************************************************************/

package main

import (
	"os"

	"github.com/sapcc/go-bits/logg"
	yaml "gopkg.in/yaml.v2"

	"github.com/sapcc/go-adjutant/adjutant/users"
	"github.com/sapcc/go-adjutant/internal/quotaview"
)

// Configuration is the optional CLI configuration file. The path is taken
// from the ADJUTANT_CONFIG environment variable; without it, every field
// falls back to its default.
type Configuration struct {
	// Endpoint overrides the service catalog lookup for the Adjutant API.
	// The ADJUTANT_URL environment variable takes precedence over this.
	Endpoint string `yaml:"endpoint"`
	// PageSize is the page size for task and notification listings.
	PageSize int `yaml:"page_size"`
	Quota    struct {
		// Hidden and Important replace the default classification tables
		// wholesale when given.
		Hidden    map[string][]string `yaml:"hidden_quotas"`
		Important map[string][]string `yaml:"important_quotas"`
	} `yaml:"quota"`
	// RoleTranslations replaces the default role display names wholesale
	// when given.
	RoleTranslations map[string]string `yaml:"role_translations"`
}

const defaultPageSize = 20

func loadConfiguration() Configuration {
	var cfg Configuration

	path := os.Getenv("ADJUTANT_CONFIG")
	if path != "" {
		configBytes, err := os.ReadFile(path)
		if err != nil {
			logg.Fatal("cannot read configuration file: %s", err.Error())
		}
		err = yaml.UnmarshalStrict(configBytes, &cfg)
		if err != nil {
			logg.Fatal("cannot parse configuration: %s", err.Error())
		}
	}

	if endpoint := os.Getenv("ADJUTANT_URL"); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return cfg
}

func (cfg Configuration) quotaViewConfig() quotaview.Config {
	result := quotaview.DefaultConfig()
	if cfg.Quota.Hidden != nil {
		result.Hidden = cfg.Quota.Hidden
	}
	if cfg.Quota.Important != nil {
		result.Important = cfg.Quota.Important
	}
	return result
}

func (cfg Configuration) roleTranslations() map[string]string {
	if cfg.RoleTranslations != nil {
		return cfg.RoleTranslations
	}
	return users.DefaultRoleTranslations
}
