package ai

const refineInstruction = `You are an expert at making digital text feel human and personal.
Rewrite the following text to sound more natural, as if it was written by a person in a physical notebook.
Maintain all original facts and data, but adjust the flow and vocabulary to be slightly more conversational.

CRITICAL RULES:
1. Return ONLY the refined text.
2. Do NOT include any introductory or concluding remarks (e.g., "Here is your refined text").
3. Do NOT use heavy markdown formatting like bolding or large headers.

Text to refine:
`

const summarizeInstruction = `Summarize the following text into concise, bulleted study notes.
The goal is to capture the essence of the content so it can be easily rewritten by hand for study or revision.

CRITICAL RULES:
1. Return ONLY the bullet points.
2. Use a maximum of 5-7 bullets.
3. No intro or outro text.

Text to summarize:
`
