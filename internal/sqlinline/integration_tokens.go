package sqlinline

// The user supplied Gemini key lives in integration_tokens, one row per
// storage key (the provider column).

const QCreateIntegrationTokens = `--sql 5b0e3f0c-9d2a-4c61-8f47-2e6a1d9c7b30
create table if not exists integration_tokens (
    id uuid primary key default gen_random_uuid(),
    provider text not null unique,
    token text not null,
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`

const QSelectIntegrationToken = `--sql e41c7a92-3b58-4f0d-a6e2-7c9b15d08f64
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 0d7f2b1e-6a4c-4e93-b8d5-93f1c2a7e046
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`

const QDeleteIntegrationToken = `--sql 9a3d6c58-1e7b-4f2a-9c04-b5e8d7f31a29
delete from integration_tokens
where provider = $1::text;
`
