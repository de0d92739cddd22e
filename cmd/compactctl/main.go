// compactctl encodes and decodes EIP-7702 authorizations in the compact
// storage format, for inspecting stored records by hand.
//
//	compactctl encode --chain-id 1 --address 0x... --nonce 1 --r 0x... --s 0x... [--parity 0]
//	compactctl encode --unsigned --chain-id 1 --address 0x... --nonce 1
//	compactctl decode [--unsigned] --len 94 <hex>
//	compactctl hash --chain-id 1 --address 0x... --nonce 1
//
// encode prints the hex encoding and its byte count. That count is not part
// of the encoding and must be passed back to decode.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/oy3o/compact/bridge"
	"github.com/oy3o/compact/eip7702"
)

// errUsage marks errors caused by bad invocation rather than bad data.
var errUsage = errors.New("usage")

func main() {
	logger := newLogger(hasFlag(os.Args[1:], "--verbose", "-v"))
	defer logger.Sync()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printHelp(os.Stderr)
			os.Exit(2)
		}
		logger.Error("compactctl failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "usage: compactctl <encode|decode|hash> [flags]")
}

func run(args []string, stdout io.Writer, logger *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	switch args[0] {
	case "encode":
		return runEncode(args[1:], stdout, logger)
	case "decode":
		return runDecode(args[1:], stdout, logger)
	case "hash":
		return runHash(args[1:], stdout)
	case "help", "-h", "--help":
		printHelp(stdout)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// authFlags are the authorization tuple flags shared by encode and hash.
type authFlags struct {
	chainID string
	address string
	nonce   uint64
}

func (f *authFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&f.chainID, "chain-id", "0", "chain id in decimal (0 means any chain)")
	fs.StringVar(&f.address, "address", "", "delegation target address in hex")
	fs.Uint64Var(&f.nonce, "nonce", 0, "authority account nonce")
}

func (f *authFlags) authorization() (eip7702.Authorization, error) {
	chainID, err := uint256.FromDecimal(f.chainID)
	if err != nil {
		return eip7702.Authorization{}, fmt.Errorf("%w: --chain-id: %v", errUsage, err)
	}
	addr, err := eip7702.ParseAddress(f.address)
	if err != nil {
		return eip7702.Authorization{}, fmt.Errorf("%w: --address: %v", errUsage, err)
	}
	return eip7702.NewAuthorization(*chainID, addr, f.nonce), nil
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("compactctl "+name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolP("verbose", "v", false, "development logging")
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func runEncode(args []string, stdout io.Writer, logger *zap.Logger) error {
	var (
		auth     authFlags
		unsigned bool
		parity   uint8
		r, s     string
	)
	fs := newFlagSet("encode")
	auth.add(fs)
	fs.BoolVar(&unsigned, "unsigned", false, "encode the bare authorization tuple")
	fs.Uint8Var(&parity, "parity", 0, "signature y parity (0 or 1)")
	fs.StringVar(&r, "r", "", "signature r in hex")
	fs.StringVar(&s, "s", "", "signature s in hex")
	if err := parse(fs, args); err != nil {
		return err
	}

	a, err := auth.authorization()
	if err != nil {
		return err
	}

	var (
		data []byte
		n    int
	)
	if unsigned {
		data, n = bridge.EncodeAuthorization(a)
	} else {
		rv, err := parseScalar("--r", r)
		if err != nil {
			return err
		}
		sv, err := parseScalar("--s", s)
		if err != nil {
			return err
		}
		signed, err := eip7702.NewSignedAuthorization(a, parity, rv, sv)
		if err != nil {
			return err
		}
		data, n = bridge.EncodeSignedAuthorization(signed)
	}
	logger.Debug("encoded", zap.Bool("unsigned", unsigned), zap.Int("len", n))
	_, err = fmt.Fprintf(stdout, "%s %d\n", hex.EncodeToString(data), n)
	return err
}

func runDecode(args []string, stdout io.Writer, logger *zap.Logger) error {
	var (
		unsigned bool
		length   int
	)
	fs := newFlagSet("decode")
	fs.BoolVar(&unsigned, "unsigned", false, "decode a bare authorization tuple")
	fs.IntVar(&length, "len", -1, "declared length printed by encode (default: whole input)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: decode takes exactly one hex argument", errUsage)
	}
	data, err := hex.DecodeString(strings.TrimPrefix(fs.Arg(0), "0x"))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if length < 0 {
		length = len(data)
	}

	var (
		a    eip7702.Authorization
		rest []byte
	)
	if unsigned {
		a, rest, err = bridge.DecodeAuthorization(data, length)
		if err != nil {
			return err
		}
	} else {
		var signed eip7702.SignedAuthorization
		signed, rest, err = bridge.DecodeSignedAuthorization(data, length)
		if err != nil {
			return err
		}
		r, s := signed.R(), signed.S()
		a = signed.Authorization()
		fmt.Fprintf(stdout, "y_parity: %d\nr: %s\ns: %s\n", signed.YParity(), r.Hex(), s.Hex())
	}
	logger.Debug("decoded", zap.Int("len", length), zap.Int("rest", len(rest)))
	_, err = fmt.Fprintf(stdout, "chain_id: %s\naddress: %s\nnonce: %d\nrest: %d\n",
		a.ChainID.Dec(), a.Address, a.Nonce(), len(rest))
	return err
}

func runHash(args []string, stdout io.Writer) error {
	var auth authFlags
	fs := newFlagSet("hash")
	auth.add(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	a, err := auth.authorization()
	if err != nil {
		return err
	}
	sum := a.SigningHash()
	_, err = fmt.Fprintf(stdout, "0x%s\n", hex.EncodeToString(sum[:]))
	return err
}

// parseScalar decodes up to 32 bytes of big-endian hex.
func parseScalar(name, s string) (uint256.Int, error) {
	var v uint256.Int
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return v, fmt.Errorf("%w: %s: %v", errUsage, name, err)
	}
	if len(b) > 32 {
		return v, fmt.Errorf("%w: %s: %d bytes, at most 32", errUsage, name, len(b))
	}
	v.SetBytes(b)
	return v, nil
}
