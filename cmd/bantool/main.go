package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mtgban/go-banprice/banapi"
	"github.com/mtgban/go-banprice/mtgban"
	"github.com/mtgban/go-banprice/tcgplayer"
)

var GlobalLogCallback mtgban.LogCallbackFunc = log.Printf

var MaxConcurrency int
var RetryMax int

var Commit = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}()

func init() {
	MaxConcurrency, _ = strconv.Atoi(os.Getenv("MAX_CONCURRENCY"))
	RetryMax, _ = strconv.Atoi(os.Getenv("BAN_RETRY_MAX"))
}

var idSystems = []banapi.IdSystem{
	banapi.IdMTGBAN, banapi.IdScryfall, banapi.IdTCG, banapi.IdMTGJSON, banapi.IdMKM, banapi.IdCK,
}

func newClient() *banapi.Client {
	client := banapi.NewClient(os.Getenv("MTGBAN_API_SIGNATURE"))
	client.LogCallback = GlobalLogCallback
	if os.Getenv("BAN_API_URL") != "" {
		client.BaseURL = os.Getenv("BAN_API_URL")
	}
	if MaxConcurrency != 0 {
		client.MaxConcurrency = MaxConcurrency
	}
	if RetryMax != 0 {
		client.SetRetryMax(RetryMax)
	}
	return client
}

// Read a previously saved API payload
func loadPayload(inputPath string, names mtgban.VendorNames) (map[string]mtgban.CardWithPrices, error) {
	err := initializeBucket(inputPath)
	if err != nil {
		return nil, err
	}

	reader, err := loadData(inputPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	prices, err := banapi.DecodeAll(data)
	if err != nil {
		return nil, err
	}
	if !prices.Meta.Date.IsZero() && !mtgban.DateEqual(prices.Meta.Date, time.Now()) {
		log.Println("Payload data is from", prices.Meta.Date.Format(time.DateOnly))
	}

	return prices.Cards(names), nil
}

func loadSussyList(sussyPath string) (mtgban.SussyList, error) {
	reader, err := loadData(sussyPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var sussy mtgban.SussyList
	err = json.NewDecoder(reader).Decode(&sussy)
	if err != nil {
		return nil, err
	}
	return sussy, nil
}

func newReference(refOpt string, cards map[string]mtgban.CardWithPrices, retail map[string]mtgban.CardPriceTable, client *banapi.Client) (mtgban.ReferenceSource, error) {
	switch refOpt {
	case "":
		return nil, nil
	case "tcg":
		tcgPublicId := os.Getenv("TCGPLAYER_PUBLIC_ID")
		tcgPrivateId := os.Getenv("TCGPLAYER_PRIVATE_ID")
		if tcgPublicId == "" || tcgPrivateId == "" {
			return nil, errors.New("missing TCGPLAYER_PUBLIC_ID or TCGPLAYER_PRIVATE_ID env vars")
		}
		reference, err := tcgplayer.NewMarketReference(tcgPublicId, tcgPrivateId)
		if err != nil {
			return nil, err
		}
		reference.LogCallback = GlobalLogCallback
		reference.Affiliate = os.Getenv("TCG_PARTNER")

		err = reference.Load(lo.Keys(cards))
		if err != nil {
			return nil, err
		}
		return reference, nil
	}

	return &mtgban.TableReference{
		VendorId: refOpt,
		Tables:   retail,
		Links:    client.RedirectURL,
	}, nil
}

func dumpCards(cards map[string]mtgban.CardWithPrices, arbit []mtgban.ArbitEntry, outputPath, format string) error {
	log.Println("Writing results to", outputPath)

	fileFormat := strings.Split(format, ".")[0]
	writer, err := putData("prices."+format, outputPath)
	if err != nil {
		return err
	}

	switch fileFormat {
	case "json":
		err = mtgban.WriteCardsToJSON(cards, arbit, writer)
	case "csv":
		err = mtgban.WriteCardsToCSV(cards, writer)
	case "ndjson":
		err = mtgban.WriteCardsToNDJSON(cards, writer)
	default:
		err = errors.New("invalid format")
	}
	closeErr := writer.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	// Json output already embeds everything
	if fileFormat == "json" {
		return nil
	}

	if fileFormat == "csv" {
		err = dumpFile("summary."+format, outputPath, func(w io.Writer) error {
			return mtgban.WriteSummaryToCSV(cards, w)
		})
		if err != nil {
			return err
		}
	}

	if len(arbit) == 0 {
		return nil
	}
	return dumpFile("arbit."+format, outputPath, func(w io.Writer) error {
		if fileFormat == "csv" {
			return mtgban.WriteArbitrageToCSV(arbit, w)
		}
		return mtgban.WriteArbitrageToNDJSON(arbit, w)
	})
}

func dumpFile(fileName, outputPath string, fn func(w io.Writer) error) error {
	writer, err := putData(fileName, outputPath)
	if err != nil {
		return err
	}
	err = fn(writer)
	closeErr := writer.Close()
	if err != nil {
		return err
	}
	return closeErr
}

func run() int {
	start := time.Now()

	title := cases.Title(language.English)

	var idHelp []string
	for _, id := range idSystems {
		idHelp = append(idHelp, string(id))
	}

	cardsOpt := flag.String("cards", "", "Comma-separated list of card ids to fetch")
	setOpt := flag.String("set", "", "Set code to fetch")
	idOpt := flag.String("id", "", "Identifier system of the results ("+strings.Join(idHelp, "/")+")")
	vendorOpt := flag.String("vendor", "", "Only return prices from this vendor")
	inputOpt := flag.String("input", "", "Path to a saved API payload to use instead of fetching")

	sellerOpt := flag.String("seller", "", title.String("retail")+" vendor to compare for arbitrage")
	buyerOpt := flag.String("buyer", "", title.String("buylist")+" vendor to compare for arbitrage")
	referenceOpt := flag.String("reference", "", "Vendor code providing reference prices, or 'tcg' for TCGplayer market")
	sussyOpt := flag.String("sussy", "", "Path to a json list of cards with unreliable reference prices")
	creditOpt := flag.Float64("credit", 1.0, "Store credit multiplier of the buyer")
	tradesOpt := flag.Bool("trades", false, "Use store credit prices for arbitrage")
	noFilterOpt := flag.Bool("nofilter", false, "Do not filter arbitrage results")
	minDiffOpt := flag.Float64("mindiff", mtgban.DefaultArbitMinDiff, "Minimum difference for arbitrage")
	minSpreadOpt := flag.Float64("minspread", mtgban.DefaultArbitMinSpread, "Minimum spread for arbitrage")

	fileFormatOpt := flag.String("format", "json", "File format of the output files (json/csv/ndjson, optionally .xz or .bz2)")
	outputPathOpt := flag.String("output-path", "", "Path where to dump results, print a summary if empty")

	signOpt := flag.String("sign", "", "Sign input")
	versionOpt := flag.Bool("v", false, "Print version information")
	flag.Parse()

	log.Println("bantool version", Commit)
	if *versionOpt {
		return 0
	}

	if *signOpt != "" {
		sig, err := signAPI(*signOpt)
		if err != nil {
			log.Println(err)
			return 1
		}
		fmt.Fprintln(os.Stdout, *signOpt+"?sig="+sig)
		return 0
	}

	switch strings.Split(*fileFormatOpt, ".")[0] {
	case "json", "csv", "ndjson":
	default:
		log.Println("Invalid -format option, see -h for supported values")
		return 1
	}

	if *outputPathOpt != "" {
		err := initializeBucket(*outputPathOpt)
		if err != nil {
			log.Println("cannot initilize buckets:", err)
			return 1
		}
	}

	params := banapi.RequestParams{
		Id:     banapi.IdSystem(*idOpt),
		Qty:    true,
		Vendor: *vendorOpt,
		Conds:  true,
	}
	if *idOpt != "" && !lo.Contains(idSystems, params.Id) {
		log.Println("Invalid -id option, see -h for supported values")
		return 1
	}

	client := newClient()
	ctx := context.Background()

	var cards map[string]mtgban.CardWithPrices
	var err error

	now := time.Now()
	switch {
	case *inputOpt != "":
		cards, err = loadPayload(*inputOpt, mtgban.DefaultVendorNames)
	case *setOpt != "":
		cards, err = client.FetchSetPrices(ctx, *setOpt, params)
	case *cardsOpt != "":
		var refs []banapi.CardRef
		for _, id := range strings.Split(*cardsOpt, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			refs = append(refs, banapi.CardRef{Id: id})
		}
		cards = client.FetchMultipleCards(ctx, refs, params)
		if len(cards) != len(refs) {
			log.Println("Loaded", len(cards), "cards out of", len(refs))
		}
	default:
		log.Println("Missing one of -cards, -set, or -input, see -h for details")
		return 1
	}
	if err != nil {
		log.Println(err)
		return 1
	}
	log.Println("loading prices took:", time.Since(now))

	var arbit []mtgban.ArbitEntry
	if *sellerOpt != "" && *buyerOpt != "" {
		retail := map[string]mtgban.CardPriceTable{}
		buylist := map[string]mtgban.CardPriceTable{}
		for cardId, card := range cards {
			retail[cardId] = card.Retail
			buylist[cardId] = card.Buylist
		}

		reference, err := newReference(*referenceOpt, cards, retail, client)
		if err != nil {
			log.Println(err)
			return 1
		}

		opts := &mtgban.ArbitOpts{
			MinDiff:          *minDiffOpt,
			MinSpread:        *minSpreadOpt,
			NoFilter:         *noFilterOpt,
			UseTrades:        *tradesOpt,
			CreditMultiplier: *creditOpt,
			Links:            client.RedirectURL,
		}
		if *sussyOpt != "" {
			opts.SussyList, err = loadSussyList(*sussyOpt)
			if err != nil {
				log.Println(err)
				return 1
			}
		}

		arbit = mtgban.Arbit(opts, *sellerOpt, *buyerOpt, retail, buylist, reference)
		log.Println("Found", len(arbit), "arbitrage opportunities from", *sellerOpt, "to", *buyerOpt)
	}

	if *outputPathOpt == "" {
		err = mtgban.WriteSummaryToCSV(cards, os.Stdout)
		if err == nil && len(arbit) > 0 {
			err = mtgban.WriteArbitrageToCSV(arbit, os.Stdout)
		}
	} else {
		now = time.Now()
		err = dumpCards(cards, arbit, *outputPathOpt, *fileFormatOpt)
		log.Println("uploading data took:", time.Since(now))
	}
	if err != nil {
		log.Println(err)
		return 1
	}

	log.Println("Completed in", time.Since(start))

	return 0
}

func main() {
	os.Exit(run())
}

func signAPI(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	v := url.Values{}
	v.Set("API", path.Base(u.Path))
	v.Set("APImode", "load")

	expires := time.Now().Add(1 * time.Minute)
	v.Set("Expires", fmt.Sprintf("%d", expires.Unix()))

	path := u.Scheme + "://" + u.Host
	if !strings.Contains(u.Host, "localhost") {
		path = "http://www.mtgban.com"
	}

	data := fmt.Sprintf("GET%d%s%s", expires.Unix(), path, v.Encode())
	key := os.Getenv("BAN_SECRET")
	if key == "" {
		return "", errors.New("missing BAN_SECRET")
	}

	// signHMACSHA1Base64
	h := hmac.New(sha1.New, []byte(key))
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	v.Set("Signature", sig)
	str := base64.StdEncoding.EncodeToString([]byte(v.Encode()))

	return str, nil
}
