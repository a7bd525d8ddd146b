package config

// DefaultConfigYAML is written to the config path on first run and by
// "mdclip init-config".
const DefaultConfigYAML = `# mdclip configuration
# Location: ~/.mdclip.yml

# Path to your Obsidian vault (or any directory for markdown notes)
vault: ~/Documents/Obsidian/Notes

# Date format for the frontmatter 'created' field
date_format: "%Y-%m-%d"

# Date format for filename templates
filename_date_format: "%Y-%m-%d"

# Default output folder (relative to vault)
default_folder: Inbox/Clips

# Auto-format output with mdformat (if installed)
auto_format: false

# Default frontmatter properties (always included when available)
default_properties:
  - title
  - source
  - author
  - created
  - published
  - description
  - tags

# Minimum time between requests to the same domain. 0 disables the limit.
rate_limit:
  delay: 3s

# External content extractor. The URL is appended as the last argument.
extractor:
  command: node
  args:
    - scripts/defuddle-extract.js
  timeout: 60s

# Category data used by "@category" triggers.
# filters:
#   data_dir: ~/.mdclip/filters
#   thresholds:
#     news: 70

logging:
  level: info
  format: console

# Ask before processing more URLs than this
confirm_threshold: 10

# Templates are checked in order; the first matching trigger wins.
# Triggers are literal substrings, regular expressions (starting with ^ or
# containing regex characters), or "@category" references such as @academic,
# @docs, @edu, @gov, @longform, @news, @scitech, @social and @wiki.
# The 'default' template is used when no other template matches.
templates:
  - name: github
    triggers:
      - "https://github.com/"
      - "^https://[\\w-]+\\.github\\.io/"
    folder: Reference/Software
    tags:
      - webclip
      - software
      - github
    filename: "{{title}}"
    properties:
      type: repository

  - name: stackoverflow
    triggers:
      - "stackoverflow.com/questions"
      - "stackexchange.com/questions"
    folder: Reference/Code
    tags:
      - webclip
      - code
      - stackoverflow
    filename: "{{title}}"

  - name: papers
    triggers:
      - "@academic"
    folder: Reference/Papers
    tags:
      - webclip
      - paper
    filename: "{{title}}"
    properties:
      type: paper

  - name: documentation
    triggers:
      - "@docs"
    folder: Reference/Docs
    tags:
      - webclip
      - docs
    filename: "{{title}}"

  - name: wikipedia
    triggers:
      - "wikipedia.org/wiki"
    folder: Reference/Wikipedia
    tags:
      - webclip
      - reference
      - wikipedia
    filename: "{{title}}"

  - name: news
    triggers:
      - "@news"
    folder: Inbox/News
    tags:
      - webclip
      - news
    filename: "{{date}} {{title}}"

  - name: default
    folder: Inbox/Clips
    tags:
      - webclip
    filename: "{{title}} {{date}}"
`
