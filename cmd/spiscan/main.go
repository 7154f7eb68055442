// Command spiscan decodes 16 bit register transactions from Saleae digital
// capture files: one file each for chip select, serial data and serial
// clock. Decoded frames go to a command history file, repeated frames
// folded into a single line with a count.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/soypat/saleae"
	"github.com/soypat/saleae/analyzers"

	"github.com/db47h/hwbench/spi"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "spiscan - decode 16 bit register transactions from Saleae digital captures.\n\tUsage:\n")
		flag.PrintDefaults()
	}
	cfgPath := flag.String("config", "", "Optional TOML scan configuration file.")
	csFile := flag.String("f-cs", "digital_0.bin", "Input filename: chip select data.")
	dataFile := flag.String("f-sd", "digital_1.bin", "Input filename: serial data.")
	clkFile := flag.String("f-clk", "digital_2.bin", "Input filename: serial clock data.")
	output := flag.String("o-cmd", "commands.txt", "Output filename of decoded register transactions.")
	timingsOutput := flag.String("o-time", "", "Output transaction start times to a file, line by line with the command history.")
	omitRead := flag.Bool("omit-read", false, "Omit read transactions in output.")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "spiscan").Logger()

	cfg, err := loadScanConfig(*cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}
	cfg.WritesOnly = cfg.WritesOnly || *omitRead

	start := time.Now()
	if err := run(logger, cfg, *csFile, *dataFile, *clkFile, *output, *timingsOutput); err != nil {
		logger.Fatal().Err(err).Msg("scan failed")
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("finished")
}

func run(log zerolog.Logger, cfg scanConfig, fcs, fdata, fclk, output, timingsOutput string) error {
	cs, err := opendigital(fcs)
	if err != nil {
		return err
	}
	data, err := opendigital(fdata)
	if err != nil {
		return err
	}
	clk, err := opendigital(fclk)
	if err != nil {
		return err
	}
	ana := analyzers.SPI{}
	txs, _ := ana.Scan(clk, cs, data, data)
	log.Info().Int("transactions", len(txs)).Msg("scan complete")

	if cfg.MinGap > 0 {
		for i := 1; i < len(txs); i++ {
			gap := time.Duration((txs[i].StartTime() - txs[i-1].StartTime()) * float64(time.Second))
			if gap < cfg.MinGap {
				log.Warn().Float64("t", txs[i].StartTime()).Dur("gap", gap).
					Msg("transactions closer than the configured minimum gap")
			}
		}
	}

	cmds, invalid := process(txs)
	if invalid > 0 {
		log.Warn().Int("count", invalid).Msg("transactions with a size other than 16 bits")
	}

	fp, err := os.Create(output)
	if err != nil {
		return err
	}
	defer fp.Close()

	var timings *os.File
	if timingsOutput != "" {
		log.Info().Str("file", timingsOutput).Msg("creating timings file")
		timings, err = os.Create(timingsOutput)
		if err != nil {
			return err
		}
		defer timings.Close()
	}

	for _, c := range cmds {
		if cfg.WritesOnly && !c.Frame.Write {
			continue
		}
		if _, err = fmt.Fprintf(fp, "cmd×%2d %s\n", c.Num, c.Frame); err != nil {
			return err
		}
		if timings != nil {
			fmt.Fprintf(timings, "t=%f\tframe=%#04x\n", c.Start, c.Frame.Word())
		}
	}
	return nil
}

func opendigital(filename string) (*saleae.DigitalFile, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	df, err := saleae.ReadDigitalFile(fp)
	if err != nil {
		return nil, err
	}
	return df, nil
}

type scantx struct {
	Num   int
	Frame spi.Frame
	Start float64
}

// process decodes transactions into frames, folding runs of identical
// frames into a single entry with a repeat count.
func process(txs []analyzers.TxSPI) (cmds []scantx, invalid int) {
	repeats := 1
	for i := 0; i < len(txs); i++ {
		tx := txs[i]
		f, ok := frameFromTx(tx)
		if !ok {
			invalid++
			continue
		}
		for j := i + 1; j < len(txs); j++ {
			next, ok := frameFromTx(txs[j])
			if !ok || next != f {
				break
			}
			repeats++
			i = j
		}
		cmds = append(cmds, scantx{Num: repeats, Frame: f, Start: tx.StartTime()})
		repeats = 1
	}
	return cmds, invalid
}

func frameFromTx(tx analyzers.TxSPI) (spi.Frame, bool) {
	if len(tx.SDO) != 2 {
		return spi.Frame{}, false
	}
	return spi.FrameFromWord(uint16(tx.SDO[0])<<8 | uint16(tx.SDO[1])), true
}
