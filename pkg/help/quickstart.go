package help

// QuickstartYAML is printed by `rfx quickstart`.
const QuickstartYAML = `# rfx Quick Start

pipeline:
  - "scrape: category nav -> listings -> recipe pages -> TSV + ARFF + SQLite"
  - "binarize: ARFF -> merged ingredient indicators -> normalized CSV + manifest"

commands:
  full_run: |
    rfx run

  scrape_only: |
    rfx scrape --filter /everyday-cooking/ --workers 8 --cache-dir .rfx-cache

  scrape_without_images_or_db: |
    rfx scrape --images=false --no-db

  convert: |
    rfx convert --tsv allrecipes_everyday_cooking.tsv --arff allrecipes_everyday_cooking.arff --force

  unify_offline: |
    rfx unify --tsv allrecipes_everyday_cooking.tsv --out unified.tsv

  binarize: |
    rfx binarize --arff allrecipes_everyday_cooking.arff --out allrecipes_binarized_everyday_cooking.csv

  stats: |
    rfx stats --top 40 --threshold 0.8

  database: |
    rfx db runs
    rfx db recipes --limit 20
    rfx db export --tsv backup.tsv

key_files:
  - "allrecipes_everyday_cooking.tsv (raw scrape, ? marks missing values)"
  - "allrecipes_everyday_cooking.arff (typed dataset, not overwritten without --force)"
  - "allrecipes_binarized_everyday_cooking.csv (feature table)"
  - "allrecipes_binarized_everyday_cooking.csv.manifest.yaml (merges, rare ingredients, top counts)"
  - "pics/<title>/image_N.jpg (downloaded images)"
  - "rfx.db (recipes and scrape runs)"

config:
  flag: "--config rfx.yaml (or RFX_CONFIG)"
  example: |
    similarity: {threshold: 0.75, scorer: lcs, transitive: false}
    features:   {min_frequency: 5}
    units:      {cup: 240}
    scrape:     {filter: /everyday-cooking/, workers: 4, cache_ttl: 24h, images: true}

error_behavior:
  - "Recipe pages that fail are listed under failed: in the scrape summary"
  - "A failed homepage or category fetch aborts the run"
  - "Logs are JSON on stderr (--quiet errors only, --verbose debug)"
`
