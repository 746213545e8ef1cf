// Copyright 2025 the DAAM authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command daam inspects and maintains stored generation experiments.
//
// Usage:
//
//	daam inspect <id>              # Summarize a stored experiment
//	daam align --prompt --word     # Map a prompt word to token positions
//	daam masks <id>                # Per-label mask coverage report
//	daam annotate <id> <key> <v>   # Patch annotations.json
//	daam render <id> -o out.png    # Render the heat map over the image
package main

import "github.com/eltociear/daam/cmd/daam/cmd"

// main.version: set by GoReleaser to the current Git tag, or "dev" for local
// builds.
var version = "dev"

func main() {
	cmd.Version = version
	cmd.Execute()
}
