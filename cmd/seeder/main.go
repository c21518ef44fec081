package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/notekeep"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/ingestion"
)

var notes = []string{
	"reading|The lighthouse keeper's journal described storms nobody else remembered.",
	"reading|The ancient library held stories that never faded.",
	"reading|A mysterious map led them to a forgotten treasure.",
	"garden|The hummingbird hovered beside a vibrant purple flower.",
	"garden|She collected feathers from birds that visited her garden.",
	"garden|A gentle breeze rustled the leaves of the old oak tree.",
	"garden|The wind carried scents of jasmine from distant gardens.",
	"cooking|They tasted the sweetest strawberries from the farmer's garden.",
	"cooking|She tasted honey straight from a beehive's sweet core.",
	"cooking|They tasted fresh bread baked just before dawn.",
	"cooking|They tasted soup simmering on the stove with fresh herbs.",
	"travel|The city skyline glowed under the starry night sky.",
	"travel|The train rattled through tunnels carved into stone.",
	"travel|They explored caves filled with stalactites glittering like chandeliers.",
	"travel|The desert dunes shifted silently under a pale moon.",
	"travel|The lighthouse beam cut through fog, guiding sailors safely.",
	"weather|Rain drummed on the rooftop, creating a soothing rhythm.",
	"weather|A sudden thunderclap shattered the silence of the forest.",
	"weather|A gentle snowfall blanketed the city in quiet white.",
	"weather|A storm rolled in, bringing thunder and lightning.",
	"music|He composed a melody that echoed through the valleys.",
	"music|She hummed a tune she learned from her grandmother.",
	"music|They sang songs under the open sky during summer nights.",
	"work|The server room developed opinions about the backup schedule.",
	"work|The meeting could have been an email, but the email refused.",
	"work|The cat debugged the production database at 3 AM.",
	"work|Documentation exists in a superposition until observed.",
	"work|The rubber duck solved the halting problem but won't tell anyone.",
	"work|Memory leaks formed a union.",
	"work|The garbage collector went on strike.",
	"ideas|Coffee tastes better when nobody's watching.",
	"ideas|Time zones are a social construct that clocks reluctantly enforce.",
	"ideas|Gravity works part-time on weekends.",
	"ideas|Thursdays were canceled due to budget constraints.",
	"ideas|Entropy decreased just to spite the physicists.",
	"nature|A lone wolf howled, echoing into the vast night.",
	"nature|Beneath the waves, coral gardens shimmered in colors unseen.",
	"nature|A rustling in the bushes signaled the arrival of deer.",
	"nature|A small frog hopped onto a lily pad in the pond.",
	"nature|The night sky glittered with countless stars.",
}

var seedFileName = flag.String("src", "", "file of seed data (tag|content per line)")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// parseLine splits a "tag|content" seed line. Lines without a tag are
// plain content.
func parseLine(line string) *core.Note {
	tag, content, found := strings.Cut(line, "|")
	if !found {
		return &core.Note{Content: line}
	}
	return &core.Note{Content: content, Tags: []string{tag}}
}

// seed reads from a source iterator and creates one note per line.
func seed(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[string]) error {
	for line := range source {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := pipeline.CreateNote(ctx, parseLine(line)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	db, err := notekeep.NewDatabase("./notekeep_db")
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(notes)
	}

	if err := seed(ctx, pipeline, source); err != nil {
		panic(err)
	}
}
