package mcpserver

// NotationGuide summarizes the Scrapbox notation that page bodies are written in.
const NotationGuide = `# Cosense (Scrapbox) Notation

Page bodies are plain lines of Scrapbox notation. They are NOT Markdown.

## Structure

- The first line of a page is its title. The write tools add it for you: pass the
  body only.
- Indentation with leading spaces (or tabs) makes bullet items. One space is the
  first level, two spaces the second level, and so on.
- The first five body lines become the page description shown in listings.

## Links

- ` + "`[Page title]`" + ` links to another page of the project. Pages that do not exist
  yet are created when someone follows the link.
- ` + "`#tag`" + ` is a link too. It ends at the first space.
- ` + "`[/project/Page]`" + ` links to a page of another project.
- ` + "`[https://example.com]`" + ` or ` + "`[Label https://example.com]`" + ` is an external link.
- ` + "`[name.icon]`" + ` shows the icon of a page.

## Decorations

- ` + "`[* bold]`" + `, ` + "`[** bigger]`" + `, ` + "`[/ italic]`" + `, ` + "`[- strike]`" + `
- ` + "`[[strong]]`" + ` is bold, not a link.
- ` + "`` `inline code` ``" + `
- ` + "`[$ x^2]`" + ` renders math.

## Blocks

- ` + "`code:name.ext`" + ` starts a code block; the following lines indented deeper than it
  belong to the block.
- ` + "`table:name`" + ` starts a table; cells are separated by tabs.
- ` + "`> quote`" + ` is a quotation.

## Example

` + "```" + `
Weekly standup 2026-01-20
[* Attendees]
 [Alice], [Bob]
[* Action items]
 [Alice] reviews the [design doc]
 Bob updates the [roadmap] #project-x
code:notes.txt
 plain text, [not a link]
` + "```" + `
`
