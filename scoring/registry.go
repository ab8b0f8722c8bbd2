// Copyright 2026 Blink Labs Software
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

package scoring

var memecoinMints = map[string]string{
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": "BONK",
	"EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm": "WIF",
	"7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr": "POPCAT",
	"MEW1gQWJ3nEXg2qgERiKu7FAFj79PHvQVREQUzScPP5":  "MEW",
	"A3eME5CetyZPBoWbRUwY3tSe25S6tb18ba9ZPbWk9eFJ": "PENG",
	"WENWENvqqNya429ubCdR81ZmD69brwQaaBYY6p3LCpk":  "WEN",
}

var defiSources = map[string]struct{}{
	"JUPITER":    {},
	"RAYDIUM":    {},
	"ORCA":       {},
	"MARINADE":   {},
	"DRIFT":      {},
	"MANGO":      {},
	"TENSOR":     {},
	"MAGIC_EDEN": {},
}

// IsMemecoin reports whether a token mint address is a known memecoin
func IsMemecoin(mint string) bool {
	_, ok := memecoinMints[mint]
	return ok
}

// MemecoinSymbol returns the ticker for a known memecoin mint
func MemecoinSymbol(mint string) (string, bool) {
	sym, ok := memecoinMints[mint]
	return sym, ok
}

// AnyMemecoin reports whether any of the given token mints is a known memecoin
func AnyMemecoin(mints []string) bool {
	for _, m := range mints {
		if IsMemecoin(m) {
			return true
		}
	}
	return false
}

// IsDefiSource reports whether a transaction source label is a recognized
// DeFi venue. Labels are matched exactly, as reported by the indexer API.
func IsDefiSource(source string) bool {
	_, ok := defiSources[source]
	return ok
}
