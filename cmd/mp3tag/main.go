// Command mp3tag inspects and edits ID3v2/ID3v1 tags on an audio file.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/morganp/mp3tag/mp3tag"
)

func main() {
	log.SetFlags(0)

	set := flag.String("set", "", "set a tag, NAME=VALUE")
	remove := flag.String("remove", "", "remove a tag by NAME")
	rw := flag.Bool("rw", false, "open for writing")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: %s [-set NAME=VALUE] [-remove NAME] [-rw] <file>", os.Args[0])
	}
	path := flag.Arg(0)

	needsWrite := *set != "" || *remove != ""
	s := mp3tag.NewSession(mp3tag.WithLogger(log.Default()))

	var err error
	if *rw || needsWrite {
		err = s.OpenRW(path)
	} else {
		err = s.Open(path)
	}
	if err != nil {
		log.Fatalf("open: %v (%s)", err, mp3tag.StrError(mp3tag.Cause(err)))
	}
	defer s.Close()

	if *set != "" {
		name, value, ok := strings.Cut(*set, "=")
		if !ok {
			log.Fatalf("-set must be NAME=VALUE, got %q", *set)
		}
		if err := s.SetTagString(name, value); err != nil {
			log.Fatalf("set %s: %v", name, err)
		}
	}

	if *remove != "" {
		if err := s.RemoveTag(*remove); err != nil {
			log.Fatalf("remove %s: %v", *remove, err)
		}
	}

	tags, err := s.ReadTags()
	if err != nil {
		log.Fatalf("read tags: %v", err)
	}

	for _, tag := range tags.Tags {
		for _, st := range tag.Simple {
			if st.IsBinary() {
				log.Printf("%-16s <%d bytes binary>", st.Name, len(st.Binary))
				continue
			}
			log.Printf("%-16s %q", st.Name, st.Value)
		}
	}
}
