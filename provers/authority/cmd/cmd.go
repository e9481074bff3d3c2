package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/provers/authority"
	"github.com/hyperledger-labs/yui-colony/signer"
)

const (
	flagMnemonic  = "mnemonic"
	flagHDPath    = "hd-path"
	flagNumber    = "number"
	flagRoot      = "message-root"
	flagTime      = "time"
	flagAuthority = "authority"
	flagQuorum    = "quorum"
)

// AuthorityCmd returns the commands that produce headers and proofs checked
// by the authority prover.
func AuthorityCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authority",
		Short: "manage authority-set headers and proofs",
	}

	cmd.AddCommand(
		keygenCmd(),
		headerCmd(),
		signCmd(),
		treeCmd(),
		generateProverConfigCmd(),
	)

	return cmd
}

func keygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "generate an authority mnemonic and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic, err := signer.GenerateMnemonic()
			if err != nil {
				return err
			}
			hdPath, err := cmd.Flags().GetString(flagHDPath)
			if err != nil {
				return err
			}
			s, err := signer.NewMnemonicSigner(mnemonic, hdPath)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"mnemonic": mnemonic,
				"address":  s.Address().Hex(),
			})
		},
	}
	cmd.Flags().String(flagHDPath, signer.DefaultHDPath, "BIP-44 derivation path")
	return cmd
}

func headerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header [parent-header-hex]",
		Short: "encode the child header of a parent header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := hexutil.Decode(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid parent header")
			}
			number, err := cmd.Flags().GetUint64(flagNumber)
			if err != nil {
				return err
			}
			root, err := cmd.Flags().GetString(flagRoot)
			if err != nil {
				return err
			}
			ts, err := cmd.Flags().GetUint64(flagTime)
			if err != nil {
				return err
			}
			bz, err := authority.EncodeHeader(&authority.Header{
				ParentHash:  authority.HeaderHash(parent),
				Number:      number,
				MessageRoot: common.HexToHash(root),
				Time:        ts,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"header": hexutil.Encode(bz),
				"hash":   authority.HeaderHash(bz).Hex(),
			})
		},
	}
	cmd.Flags().Uint64(flagNumber, 1, "header number; must be the light client height plus one")
	cmd.Flags().String(flagRoot, common.Hash{}.Hex(), "message root committed by the header")
	cmd.Flags().Uint64(flagTime, 0, "header timestamp")
	return cmd
}

func signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign [chain-name] [header-hex]",
		Short: "build a finality proof by signing a header with one or more authority mnemonics",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			header, err := hexutil.Decode(args[1])
			if err != nil {
				return errors.Wrap(err, "invalid header")
			}
			if _, err := authority.DecodeHeader(header); err != nil {
				return err
			}
			mnemonics, err := cmd.Flags().GetStringArray(flagMnemonic)
			if err != nil {
				return err
			}
			if len(mnemonics) == 0 {
				return errors.Newf("at least one --%s is required", flagMnemonic)
			}
			hdPath, err := cmd.Flags().GetString(flagHDPath)
			if err != nil {
				return err
			}
			signatures := make([][]byte, 0, len(mnemonics))
			for _, m := range mnemonics {
				s, err := signer.NewMnemonicSigner(m, hdPath)
				if err != nil {
					return err
				}
				sig, err := s.Sign(cmd.Context(), authority.SigningHash(args[0], header).Bytes())
				if err != nil {
					return err
				}
				signatures = append(signatures, sig)
			}
			proof, err := authority.EncodeFinalityProof(signatures)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"proof": hexutil.Encode(proof)})
		},
	}
	cmd.Flags().StringArray(flagMnemonic, nil, "authority mnemonic; repeat once per signer")
	cmd.Flags().String(flagHDPath, signer.DefaultHDPath, "BIP-44 derivation path")
	return cmd
}

type recordProof struct {
	Record core.MessageDeliveryRecord `json:"record"`
	Proof  core.MerkleProof           `json:"proof"`
}

func treeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [records-file]",
		Short: "compute the message root and inclusion proofs of delivery records (one JSON record per line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}
			proofs, root, err := buildProofs(records)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"message_root": root.Hex(),
				"records":      proofs,
			})
		},
	}
	return cmd
}

func buildProofs(records []core.MessageDeliveryRecord) ([]recordProof, common.Hash, error) {
	leaves := make([]common.Hash, len(records))
	for i, r := range records {
		leaf, err := authority.LeafHash(r)
		if err != nil {
			return nil, common.Hash{}, err
		}
		leaves[i] = leaf
	}
	tree, err := authority.BuildTree(leaves)
	if err != nil {
		return nil, common.Hash{}, err
	}
	proofs := make([]recordProof, len(records))
	for i, r := range records {
		p, err := tree.Proof(uint64(i))
		if err != nil {
			return nil, common.Hash{}, err
		}
		bz, err := authority.EncodeInclusionProof(p)
		if err != nil {
			return nil, common.Hash{}, err
		}
		proofs[i] = recordProof{Record: r, Proof: bz}
	}
	return proofs, tree.Root(), nil
}

func readRecords(path string) ([]core.MessageDeliveryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var records []core.MessageDeliveryRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r core.MessageDeliveryRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, errors.Wrapf(err, "record #%d", len(records))
		}
		records = append(records, r)
	}
	return records, scanner.Err()
}

func generateProverConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print an authority prover config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authorities, err := cmd.Flags().GetStringSlice(flagAuthority)
			if err != nil {
				return err
			}
			quorum, err := cmd.Flags().GetInt(flagQuorum)
			if err != nil {
				return err
			}
			c := &authority.ProverConfig{Authorities: authorities, Quorum: quorum}
			if err := c.Validate(); err != nil {
				return err
			}
			bz, err := core.MarshalTyped(authority.ProverConfigType, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
	cmd.Flags().StringSlice(flagAuthority, nil, "authority address; repeatable")
	cmd.Flags().Int(flagQuorum, 0, "required number of signers (0 for a two-thirds majority)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
