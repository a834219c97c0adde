// Pre-renders a canned audio clip, e.g. the "thinking" filler played while a
// real answer is being generated.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"mentor-backend/internal/speech"
)

func main() {
	text := flag.String("text", "Just a moment, let me gather the details.", "text to speak")
	voice := flag.String("voice", speech.DefaultVoice, "voice identifier")
	endpoint := flag.String("endpoint", os.Getenv("TTS_ENDPOINT_URL"), "TTS engine endpoint")
	out := flag.String("out", "thinking.mp3", "output file")
	flag.Parse()

	if *endpoint == "" {
		log.Fatal("a TTS endpoint is required (flag -endpoint or TTS_ENDPOINT_URL)")
	}

	synth := speech.NewEdgeSynthesizer(*endpoint, *voice)
	audio, err := synth.Synthesize(context.Background(), speech.CleanForSpeech(*text))
	if err != nil {
		log.Fatalf("synthesis failed: %v", err)
	}

	if err := os.WriteFile(*out, audio, 0644); err != nil {
		log.Fatalf("could not write %s: %v", *out, err)
	}
	log.Printf("wrote %s (%d bytes)", *out, len(audio))
}
