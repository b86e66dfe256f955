// Copyright 2025 Poiesic Systems
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


// Package search resolves free-text queries to ranked entity matches.
//
// The Engine runs a multi-stage pipeline:
//   - Vector similarity search over indexed entity descriptions
//   - Live-entity enrichment and state filtering via the directory
//   - Keyword boosting for literal entity id, name, domain, and area hits
//   - Optional hybrid merge with a pure keyword pass
//
// Any failing stage degrades the whole search to the keyword pass instead
// of surfacing an error; results are ranked by a score in [0,1], sorted
// descending with first-seen-wins ties.
package search
