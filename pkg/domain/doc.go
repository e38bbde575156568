/*
Package domain contains the core domain models of the Kitchen Helper dialogue engine.

It defines the recipe catalog entities, the per-user dialogue Session, the
device shadow snapshots (desired and reported) and the structured Response
handed to a presentation layer. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Recipe / Step: immutable catalog data, loaded once at process start.
  - Session: the user's dialogue position (START or RECIPE) and active recipe.
  - DesiredState / ReportedState: what the controller asks the thermometer to do,
    and what the thermometer last said about itself.
  - Response: spoken text, optional prompt, optional display text and card.
*/
package domain
