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

import "fmt"

// BuildTitle renders the default card title for a scanned transaction
func BuildTitle(txType string, sol float64, source string) string {
	switch txType {
	case TxTypeSwap:
		return fmt.Sprintf("%.2f SOL SWAP on %s", sol, source)
	case TxTypeNftMint, TxTypeCompressedNftMint:
		if sol > 0 {
			return fmt.Sprintf("MINTED NFT for %.2f SOL", sol)
		}
		return "FREE MINT"
	case TxTypeNftSale:
		return fmt.Sprintf("NFT SOLD for %.2f SOL", sol)
	case TxTypeTransfer, TxTypeSolTransfer:
		return fmt.Sprintf("%.2f SOL TRANSFER", sol)
	case TxTypeStakeSol:
		return fmt.Sprintf("STAKED %.2f SOL", sol)
	case TxTypeUnstakeSol:
		return fmt.Sprintf("UNSTAKED %.2f SOL", sol)
	case TxTypeTokenMint:
		return "LAUNCHED A TOKEN"
	case TxTypeBurn, TxTypeBurnNft:
		return "BURNED"
	default:
		return fmt.Sprintf("%s via %s", txType, source)
	}
}
