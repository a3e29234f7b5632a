package template

// basicTemplate is the default scaffold written by "skills create".
const basicTemplate = `---
name: {{.Name}}
description: {{yaml .Description}}
---

# {{.Title}}

## When to use this skill

TODO: Describe when an agent should use this skill.

## Instructions

TODO: Add step-by-step instructions for the agent.
`

// workflowTemplate is the built-in template for multi-step workflow skills
const workflowTemplate = `---
name: {{.Name}}
description: {{yaml .Description}}
license: {{yaml .License}}{{if .AllowedTools}}
allowed-tools: {{yaml .AllowedTools}}{{end}}
---

# {{.Title}}

## When to use this skill

TODO: Describe the task this workflow completes and when an agent should start it.

## Workflow

### Step 1: Preparation

1. Check that required tools and inputs are available
2. Read any files under ` + "`references/`" + ` that apply to the task

### Step 2: Execution

1. Perform the primary operation
2. Run helper scripts from ` + "`scripts/`" + ` where they exist
3. Validate the output

### Step 3: Finalization

1. Clean up temporary files
2. Summarize the results for the user

## Error Handling

- Stop before execution when inputs are invalid
- Report failures with the step that produced them
`

// utilityTemplate is the built-in template for helper skills built around scripts
const utilityTemplate = `---
name: {{.Name}}
description: {{yaml .Description}}
license: {{yaml .License}}{{if .AllowedTools}}
allowed-tools: {{yaml .AllowedTools}}{{end}}
---

# {{.Title}}

## When to use this skill

TODO: Describe the inputs this utility handles.

## Usage

` + "```" + `
scripts/{{.Name}} <input> [options]
` + "```" + `

### Options

- ` + "`--format`" + `: Output format (json, yaml, text)
- ` + "`--verbose`" + `: Enable detailed output

## Notes

Input: <describe expected input format>
Output: <describe output format>
`
